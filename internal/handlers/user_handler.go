package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for accounts and purchases.
type UserHandler struct {
	users    *services.UserService
	tokens   *services.TokenService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, tokens *services.TokenService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the account routes. auth guards the routes that need a logged-in user.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)

	router.Get("/users/me", auth, h.HandleMe)
	router.Get("/users/:id/products", h.HandleListProducts)
	router.Post("/purchases", auth, h.HandleBuyProduct)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BuyProductRequest represents the request body for a purchase.
type BuyProductRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.users.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin checks the credentials and issues a session token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("login failed", zap.Error(err))
		return respondError(c, h.logger, "Authentication failed", err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return respondError(c, h.logger, "Could not issue token", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// HandleMe returns the logged-in user with their products.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not logged in"})
	}

	user, err := h.users.GetUserWithProducts(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleListProducts lists the products owned by the user in the path.
func (h *UserHandler) HandleListProducts(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	products, err := h.users.ListProductsOwnedBy(c.UserContext(), uint(userID))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleBuyProduct validates a purchase of a product by the logged-in user.
func (h *UserHandler) HandleBuyProduct(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not logged in"})
	}

	var req BuyProductRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	if err := h.users.BuyProduct(c.UserContext(), req.ProductID, userID); err != nil {
		return respondError(c, h.logger, "Purchase rejected", err)
	}

	return c.JSON(fiber.Map{
		"message":    "Purchase validated",
		"product_id": req.ProductID,
		"user_id":    userID,
	})
}
