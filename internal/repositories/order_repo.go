package repositories

import (
	"context"

	"shopapi/internal/models"
)

// OrderRepository defines the interface for order data access. GetAll and
// GetByID eagerly load the order's items and each item's product, so
// rendering an order never needs follow-up queries.
type OrderRepository interface {
	GetAll(ctx context.Context, offset, limit int) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// Create persists the order together with its items and decrements
	// every referenced product's stock by the item amount, all in one
	// transaction. A decrement that would drive stock below zero aborts
	// the whole transaction with models.InsufficientStockError.
	Create(ctx context.Context, order *models.Order) error
	// UpdateStatus sets the order's status unconditionally and returns the
	// updated order. Any status may move to any other status.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, order *models.Order) error
}
