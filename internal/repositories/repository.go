package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"
)

var (
	// ErrNotFound is returned when no record matches a lookup. Stores never
	// report absence as a nil record with a nil error.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user data access.
// Lookups accept an optional list of columns to project; other fields of
// the returned record are left zero.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string, fields ...string) (*models.User, error)
	FindByID(ctx context.Context, id uint, fields ...string) (*models.User, error)
	FindByIDWithProducts(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}
