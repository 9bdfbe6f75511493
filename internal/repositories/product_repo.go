package repositories

import (
	"context"

	"shopapi/internal/models"
)

// ProductRepository defines the interface for product data access.
// GetByID returns (nil, nil) when no product matches.
type ProductRepository interface {
	GetAll(ctx context.Context, offset, limit int) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetAllByIDs fetches every product whose id is in ids with a single
	// query. It may return fewer products than ids; callers reconcile by
	// comparing requested against returned ids.
	GetAllByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product, changes map[string]any) error
	Delete(ctx context.Context, product *models.Product) error
}
