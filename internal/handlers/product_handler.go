package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopapi/internal/models"
	"shopapi/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// productID parses and checks the id path parameter. A malformed id is a 422.
func (h *ProductHandler) productID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// HandleGetProducts retrieves products with pagination.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	offset, limit, err := pagination(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	products, err := h.service.ListProducts(c.Context(), offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := h.productID(c)
	if !ok {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid product ID.")
	}
	product, err := h.service.GetProduct(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductCreate
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid request body.")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}
	product, err := h.service.CreateProduct(c.Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct partially updates a product: only the fields present
// in the body change.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := h.productID(c)
	if !ok {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid product ID.")
	}
	var req models.ProductUpdate
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid request body.")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}
	product, err := h.service.UpdateProduct(c.Context(), id, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := h.productID(c)
	if !ok {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid product ID.")
	}
	if err := h.service.DeleteProduct(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return detail(c, fiber.StatusOK, "Deleted successfully.")
}
