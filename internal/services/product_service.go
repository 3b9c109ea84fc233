package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ValidateProductByID returns ErrProductNotFound unless the product exists.
func (s *ProductService) ValidateProductByID(ctx context.Context, id uint) error {
	_, err := s.GetProductByID(ctx, id)
	return err
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

// FindByUserID retrieves the products owned by a user.
func (s *ProductService) FindByUserID(ctx context.Context, userID uint) ([]models.Product, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// CreateProduct lists a new product for its owner.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.UserID == 0 {
		return fmt.Errorf("product must have an owner")
	}
	return s.repo.Create(ctx, product)
}
