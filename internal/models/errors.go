package models

import (
	"errors"
	"fmt"
)

// ErrDuplicateProductID is returned when an order references the same
// product in more than one line item.
var ErrDuplicateProductID = errors.New("Duplicate product IDs.")

// ErrInvalidOrderStatus is returned for a status value outside the
// OrderStatus enumeration.
var ErrInvalidOrderStatus = errors.New("invalid order status")

// NotFoundError signals that no entity of the given kind matches the id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found.", e.Entity, e.ID)
}

// InsufficientStockError signals that a requested quantity exceeds the
// product's available stock.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Product %s not enough in stock.", e.ProductID)
}
