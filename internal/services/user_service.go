package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/credential"
	"storefront/pkg/rabbitmq"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// ProductCatalog is the product side the user service depends on.
type ProductCatalog interface {
	ValidateProductByID(ctx context.Context, id uint) error
	FindByUserID(ctx context.Context, userID uint) ([]models.Product, error)
}

// PurchasePublisher announces validated purchases to other services.
type PurchasePublisher interface {
	PublishPurchaseValidated(event rabbitmq.PurchaseEvent) error
}

// UserService handles registration, login and purchase eligibility.
type UserService struct {
	users     repositories.UserRepository
	products  ProductCatalog
	codec     credential.Codec
	publisher PurchasePublisher // optional
	logger    *zap.Logger
}

// NewUserService creates a new UserService. publisher may be nil, in which
// case no purchase events are sent.
func NewUserService(users repositories.UserRepository, products ProductCatalog, codec credential.Codec, publisher PurchasePublisher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:     users,
		products:  products,
		codec:     codec,
		publisher: publisher,
		logger:    logger.Named("user_service"),
	}
}

// Register creates a user with a lower-cased email and a hashed password.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(email)

	// Only the email column is read so the check exposes nothing else.
	existing, err := s.users.FindByEmail(ctx, email, "email")
	switch {
	case err == nil && existing.Email != "":
		return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, email)
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	digest, err := s.codec.Hash(password)
	if err != nil {
		if errors.Is(err, credential.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, email)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login checks the password of the user with the given email. The returned
// record never carries the password digest.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(email)

	user, err := s.users.FindByEmail(ctx, email, "id", "email", "name", "password")
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEmailNotFound, email)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.codec.Verify(password, user.Password) {
		s.logger.Info("login rejected", zap.Uint("user_id", user.ID))
		return nil, ErrWrongPassword
	}

	user.Password = ""
	return user, nil
}

// ListProductsOwnedBy returns the products of a user. Unknown users own nothing.
func (s *UserService) ListProductsOwnedBy(ctx context.Context, userID uint) ([]models.Product, error) {
	return s.products.FindByUserID(ctx, userID)
}

// GetUserWithProducts returns a user with their products attached.
func (s *UserService) GetUserWithProducts(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByIDWithProducts(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
		}
		return nil, err
	}
	if user.Products == nil {
		user.Products = []models.Product{}
	}
	return user, nil
}

// FindByUserID returns the ID-only record of an existing user.
func (s *UserService) FindByUserID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID, "id")
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

// BuyProduct checks that both the product and the user exist. The two
// lookups run concurrently; when both fail the product error is reported.
// No purchase record is written.
func (s *UserService) BuyProduct(ctx context.Context, productID, userID uint) error {
	var productErr, userErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		productErr = s.products.ValidateProductByID(ctx, productID)
	})
	wg.Go(func() {
		_, userErr = s.FindByUserID(ctx, userID)
	})
	wg.Wait()

	if productErr != nil {
		return productErr
	}
	if userErr != nil {
		return userErr
	}

	s.publishPurchase(productID, userID)
	return nil
}

func (s *UserService) publishPurchase(productID, userID uint) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.PurchaseEvent{
		ProductID:   productID,
		UserID:      userID,
		ValidatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishPurchaseValidated(event); err != nil {
		s.logger.Warn("failed to publish purchase event",
			zap.Uint("product_id", productID), zap.Uint("user_id", userID), zap.Error(err))
	}
}
