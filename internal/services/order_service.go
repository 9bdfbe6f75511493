package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/pkg/rabbitmq"
)

// OrderService handles business logic related to orders, most notably the
// order-creation workflow: duplicate detection, existence and stock checks
// against the product catalog, and the atomic order+items+stock-decrement
// write.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client // optional, may be nil
}

// NewOrderService creates a new OrderService. mqClient may be nil, in which
// case no events are published.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// ListOrders retrieves a page of orders with their items and products.
func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx, offset, limit)
}

// GetOrder retrieves a single order by its ID with items and products.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &models.NotFoundError{Entity: "Order", ID: id}
	}
	return order, nil
}

// CreateOrder validates and persists a new order. The checks run in a fixed
// sequence and short-circuit on the first failure:
//
//  1. reject duplicate product references across line items,
//  2. bulk-fetch all referenced products and reject the first unknown id,
//  3. reject the first line item whose amount exceeds the product's stock,
//  4. persist the order with its items and decrement each product's stock
//     in one transaction.
//
// Nothing is written unless every check passes, and a write conflict with a
// concurrent order rolls the whole order back.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderCreate) (*models.Order, error) {
	seen := make(map[string]bool, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if seen[item.ProductID] {
			return nil, models.ErrDuplicateProductID
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, &models.NotFoundError{Entity: "Product", ID: item.ProductID}
		}
		if product.Amount < item.Amount {
			return nil, &models.InsufficientStockError{ProductID: product.ID}
		}
	}

	order := &models.Order{
		ID:           uuid.New().String(),
		CreationDate: time.Now(),
		Status:       models.StatusCreated,
		Items:        make([]models.OrderItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		productID := item.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New().String(),
			Amount:    item.Amount,
			OrderID:   &order.ID,
			ProductID: &productID,
		})
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(rabbitmq.OrderCreatedKey, order)

	// Reload so the response carries the items' products.
	created, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil || created == nil {
		return order, nil
	}
	return created, nil
}

// UpdateOrderStatus sets the order's status. There is no transition graph:
// any status may move to any other status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, models.ErrInvalidOrderStatus
	}
	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &models.NotFoundError{Entity: "Order", ID: id}
	}

	s.publish(rabbitmq.OrderStatusUpdatedKey, order)

	return order, nil
}

// publish emits an order event. Publishing is best-effort: a broker failure
// is logged and never fails the request.
func (s *OrderService) publish(key string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishOrderEvent(key, order); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", key, order.ID, err)
	}
}
