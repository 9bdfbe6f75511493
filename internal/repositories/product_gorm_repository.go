package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopapi/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository built
// on the generic Repository.
type GORMProductRepository struct {
	db   *gorm.DB
	base *Repository[models.Product]
}

// NewGORMProductRepository creates a new GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db:   db,
		base: NewRepository[models.Product](db),
	}
}

// GetAll retrieves a page of products.
func (r *GORMProductRepository) GetAll(ctx context.Context, offset, limit int) ([]models.Product, error) {
	return r.base.GetAll(ctx, offset, limit)
}

// GetByID retrieves a single product by its ID, or (nil, nil) if absent.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.base.GetByID(ctx, id)
}

// GetAllByIDs retrieves all products whose id is in ids in one query.
func (r *GORMProductRepository) GetAllByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	return products, nil
}

// Create persists a new product, generating its ID when unset.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return r.base.Create(ctx, product)
}

// Update applies a partial update to the product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product, changes map[string]any) error {
	return r.base.Update(ctx, product, changes)
}

// Delete removes the product. Order items that referenced it keep their row
// with the product reference nulled out.
func (r *GORMProductRepository) Delete(ctx context.Context, product *models.Product) error {
	return r.base.Delete(ctx, product)
}
