package services

import (
	"context"

	"github.com/google/uuid"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ListProducts retrieves a page of products.
func (s *ProductService) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, error) {
	return s.repo.GetAll(ctx, offset, limit)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &models.NotFoundError{Entity: "Product", ID: id}
	}
	return product, nil
}

// CreateProduct creates a new product from the request payload and returns
// it with its generated ID.
func (s *ProductService) CreateProduct(ctx context.Context, req models.ProductCreate) (*models.Product, error) {
	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Amount:      req.Amount,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update: only fields present in the payload
// change, everything else keeps its previous value.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req models.ProductUpdate) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product, req.Changes()); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, product)
}
