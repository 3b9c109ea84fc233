package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/credential"
	"storefront/pkg/rabbitmq"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, zl)
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}

	// Purchase events are optional; the API keeps working without a broker.
	var publisher services.PurchasePublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zl)
	if err != nil {
		zl.Warn("RabbitMQ unavailable, purchase events disabled", zap.Error(err))
	} else {
		defer mqClient.Close()
		publisher = mqClient
		err = mqClient.ConsumePurchaseEvents(func(event rabbitmq.PurchaseEvent) error {
			zl.Info("purchase validated",
				zap.Uint("product_id", event.ProductID),
				zap.Uint("user_id", event.UserID),
				zap.Time("validated_at", event.ValidatedAt))
			return nil
		})
		if err != nil {
			zl.Warn("failed to start purchase consumer", zap.Error(err))
		}
	}

	app := NewApp(cfg, db, publisher, zl)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zl.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			zl.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("error during Fiber shutdown", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
}

// NewApp wires repositories, services and handlers into a Fiber app.
// publisher may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, publisher services.PurchasePublisher, zl *zap.Logger) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	productService := services.NewProductService(productRepo)
	userService := services.NewUserService(userRepo, productService, credential.NewBcryptCodec(cfg.BcryptCost), publisher, zl)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	userHandler := handlers.NewUserHandler(userService, tokenService, zl)
	productHandler := handlers.NewProductHandler(productService, zl)
	auth := middleware.AuthRequired(tokenService, zl)

	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	userHandler.RegisterRoutes(apiV1, auth)
	productHandler.RegisterRoutes(apiV1, auth)

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			zl.Warn("health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"time":     time.Now().Format(time.RFC3339),
				"database": "unreachable",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"events":   publisher != nil,
		})
	})

	return app
}
