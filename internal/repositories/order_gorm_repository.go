package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopapi/internal/models"
)

// itemsWithProduct is the relation chain eagerly loaded on every order read.
const itemsWithProduct = "Items.Product"

// GORMOrderRepository is a GORM implementation of OrderRepository built on
// the generic Repository.
type GORMOrderRepository struct {
	db   *gorm.DB
	base *Repository[models.Order]
}

// NewGORMOrderRepository creates a new GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db:   db,
		base: NewRepository[models.Order](db),
	}
}

// GetAll retrieves a page of orders with items and products preloaded.
func (r *GORMOrderRepository) GetAll(ctx context.Context, offset, limit int) ([]models.Order, error) {
	return r.base.GetAll(ctx, offset, limit, itemsWithProduct)
}

// GetByID retrieves a single order with items and products preloaded, or
// (nil, nil) if absent.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.base.GetByID(ctx, id, itemsWithProduct)
}

// Create inserts the order and its items and decrements the stock of every
// referenced product in a single transaction. The decrement is guarded with
// an "amount >= requested" condition, so a concurrent order that consumed
// the stock between the workflow's check and this write makes the guard
// match zero rows and rolls the whole order back.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.base.WithTx(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, item := range order.Items {
			if item.ProductID == nil {
				return fmt.Errorf("order item %s has no product reference", item.ID)
			}
			res := tx.Model(&models.Product{}).
				Where("id = ? AND amount >= ?", *item.ProductID, item.Amount).
				UpdateColumn("amount", gorm.Expr("amount - ?", item.Amount))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", *item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return &models.InsufficientStockError{ProductID: *item.ProductID}
			}
		}
		return nil
	})
}

// UpdateStatus sets the order's status and returns the order with its items
// reloaded.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Delete removes the order and, through the cascade constraint, its items.
func (r *GORMOrderRepository) Delete(ctx context.Context, order *models.Order) error {
	return r.base.Delete(ctx, order)
}
