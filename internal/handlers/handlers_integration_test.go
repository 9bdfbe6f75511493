package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shopapi/internal/handlers"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
)

// setupApp builds a Fiber app on a fresh in-memory SQLite database with the
// full handler/service/repository stack and no message broker.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil)

	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	return app, db
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON performs a request with an optional JSON body and decodes the JSON
// response into out when it is non-nil.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	resp.Body.Close()
	return resp
}

func createTestProduct(t *testing.T, app *fiber.App, name string, price float64, amount int) models.Product {
	t.Helper()
	var product models.Product
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{
		"name":        name,
		"description": "integration test product",
		"price":       price,
		"amount":      amount,
	}, &product)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, product.ID)
	return product
}

func getProductAmount(t *testing.T, app *fiber.App, id string) int {
	t.Helper()
	var product models.Product
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/"+id, nil, &product)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return product.Amount
}

func TestProductCRUD(t *testing.T) {
	app, _ := setupApp(t)

	// Round trip: the fetched product equals the payload plus a generated id.
	created := createTestProduct(t, app, "Widget", 9.99, 5)
	var fetched models.Product
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, fetched)

	// Partial update: only the supplied field changes.
	var updated models.Product
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.ID, map[string]any{"price": 12.5}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 5, updated.Amount)

	// Delete, then further reads are 404.
	var deleteResp map[string]string
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, nil, &deleteResp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Deleted successfully.", deleteResp["detail"])

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductValidation(t *testing.T) {
	app, _ := setupApp(t)

	// Missing required name.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{"price": 1.0, "amount": 1}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Negative price.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{"name": "X", "price": -1.0, "amount": 1}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Malformed id in the path.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestProductPagination(t *testing.T) {
	app, _ := setupApp(t)

	for i := 0; i < 5; i++ {
		createTestProduct(t, app, fmt.Sprintf("Product %d", i), 1.0, 1)
	}

	var page []models.Product
	resp := doJSON(t, app, http.MethodGet, "/api/v1/products?offset=0&limit=3", nil, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page, 3)

	var rest []models.Product
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products?offset=3&limit=3", nil, &rest)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, rest, 2)

	// Pages are disjoint.
	seen := make(map[string]bool)
	for _, product := range append(page, rest...) {
		assert.False(t, seen[product.ID])
		seen[product.ID] = true
	}

	// Invalid pagination parameters are 422.
	for _, query := range []string{"offset=abc", "limit=abc", "offset=-1", "limit=0", "limit=101"} {
		resp = doJSON(t, app, http.MethodGet, "/api/v1/products?"+query, nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, query)
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	app, _ := setupApp(t)

	product := createTestProduct(t, app, "Widget", 9.99, 5)

	var order models.OrderResponse
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"product_id": product.ID, "amount": 3}},
	}, &order)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusCreated, order.Status)
	assert.False(t, order.CreationDate.IsZero())
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Amount)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, product.ID, order.Items[0].Product.ID)
	assert.Equal(t, "Widget", order.Items[0].Product.Name)

	assert.Equal(t, 2, getProductAmount(t, app, product.ID))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	app, db := setupApp(t)

	product := createTestProduct(t, app, "Widget", 9.99, 5)

	var errResp map[string]any
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"product_id": product.ID, "amount": 6}},
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("Product %s not enough in stock.", product.ID), errResp["detail"])

	// Nothing was persisted and the stock is untouched.
	assert.Equal(t, 5, getProductAmount(t, app, product.ID))
	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	app, db := setupApp(t)

	missingID := "ffffffff-ffff-ffff-ffff-ffffffffffff"
	var errResp map[string]any
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"product_id": missingID, "amount": 1}},
	}, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("Product %s not found.", missingID), errResp["detail"])

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCreateOrderDuplicateProductIDs(t *testing.T) {
	app, db := setupApp(t)

	product := createTestProduct(t, app, "Widget", 9.99, 5)

	var errResp map[string]any
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{
			{"product_id": product.ID, "amount": 1},
			{"product_id": product.ID, "amount": 2},
		},
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Duplicate product IDs.", errResp["detail"])

	assert.Equal(t, 5, getProductAmount(t, app, product.ID))
	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCreateOrderSchemaValidation(t *testing.T) {
	app, _ := setupApp(t)

	product := createTestProduct(t, app, "Widget", 9.99, 5)

	// No items at all.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{"order_items": []map[string]any{}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Non-positive item amount.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"product_id": product.ID, "amount": 0}},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Item without a product reference.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"amount": 1}},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetOrders(t *testing.T) {
	app, _ := setupApp(t)

	product := createTestProduct(t, app, "Widget", 9.99, 10)
	var created models.OrderResponse
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"product_id": product.ID, "amount": 2}},
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var orders []models.OrderResponse
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", nil, &orders)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Product)
	assert.Equal(t, product.ID, orders[0].Items[0].Product.ID)

	var fetched models.OrderResponse
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+created.ID, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, fetched.ID)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/ffffffff-ffff-ffff-ffff-ffffffffffff", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateOrderStatus(t *testing.T) {
	app, _ := setupApp(t)

	product := createTestProduct(t, app, "Widget", 9.99, 10)
	var created models.OrderResponse
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"product_id": product.ID, "amount": 1}},
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Every status is reachable from every other status.
	statuses := []models.OrderStatus{
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusCanceled,
		models.StatusCreated,
	}
	for _, status := range statuses {
		var updated models.OrderResponse
		resp = doJSON(t, app, http.MethodPatch,
			fmt.Sprintf("/api/v1/orders/%s/status?status=%s", created.ID, status), nil, &updated)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, status, updated.Status)
	}

	// Missing or invalid status values are 422.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+created.ID+"/status?status=teleported", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown order is 404.
	resp = doJSON(t, app, http.MethodPatch,
		"/api/v1/orders/ffffffff-ffff-ffff-ffff-ffffffffffff/status?status=shipped", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderStockConservation(t *testing.T) {
	app, _ := setupApp(t)

	// Drain the stock across several orders and check the final amount is
	// exactly the initial amount minus the sum of ordered quantities.
	product := createTestProduct(t, app, "Widget", 9.99, 10)
	for _, amount := range []int{4, 3, 3} {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
			"order_items": []map[string]any{{"product_id": product.ID, "amount": amount}},
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	assert.Equal(t, 0, getProductAmount(t, app, product.ID))

	// The well is dry: one more unit is a stock failure.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_items": []map[string]any{{"product_id": product.ID, "amount": 1}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
