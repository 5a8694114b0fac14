package server

import (
	"log/slog"
	"time"

	"liberty/internal/config"
	"liberty/internal/handlers"
	"liberty/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// AdminPrefix is the route group of the product administration area.
const AdminPrefix = "/api/v1/admin"

// New builds the Fiber app: middleware, health check, static product images
// and the admin routes.
func New(cfg config.Config, productService *services.ProductService, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimitMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if cfg.Images.URLPrefix != "" {
		app.Static(cfg.Images.URLPrefix, cfg.Images.Dir)
	}

	admin := app.Group(AdminPrefix)
	productHandler := handlers.NewProductHandler(productService, AdminPrefix+"/products", log)
	productHandler.RegisterRoutes(admin)

	return app
}
