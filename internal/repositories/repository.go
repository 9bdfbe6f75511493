package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository is a generic GORM-backed store for a single entity type. It
// provides the uniform CRUD surface the entity-specific repositories build
// on: create, fetch by id with optional eager-loading, stable paginated
// listing, partial update and delete. Every mutating call runs in its own
// transaction unless the repository was derived with WithTx, in which case
// all calls share the outer transaction.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a Repository for the entity type T.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// WithTx returns a Repository bound to the given transaction handle so that
// multi-step operations share one transaction boundary.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx}
}

// Create persists the entity and fills in any database-generated fields.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return fmt.Errorf("failed to create entity: %w", err)
		}
		return nil
	})
}

// GetByID fetches a single entity by primary key, eagerly loading the named
// relations. Absence is not an error: it returns (nil, nil) and the caller
// decides whether that is a failure.
func (r *Repository[T]) GetByID(ctx context.Context, id string, preloads ...string) (*T, error) {
	query := r.db.WithContext(ctx)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	var entity T
	if err := query.First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entity by id %s: %w", id, err)
	}
	return &entity, nil
}

// GetAll returns at most limit entities starting at offset, in primary-key
// order. The ordering carries no meaning beyond being stable across calls,
// which is what deterministic pagination needs.
func (r *Repository[T]) GetAll(ctx context.Context, offset, limit int, preloads ...string) ([]T, error) {
	query := r.db.WithContext(ctx)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	var entities []T
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

// Update applies only the given column changes to the entity; columns absent
// from the map keep their previous values. An empty change set is a no-op.
func (r *Repository[T]) Update(ctx context.Context, entity *T, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entity).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update entity: %w", err)
		}
		return nil
	})
}

// Delete removes the entity row. Children configured with cascade
// constraints on the model go with it.
func (r *Repository[T]) Delete(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(entity).Error; err != nil {
			return fmt.Errorf("failed to delete entity: %w", err)
		}
		return nil
	})
}
