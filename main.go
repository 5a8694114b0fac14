package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"liberty/internal/config"
	"liberty/internal/database"
	"liberty/internal/logger"
	"liberty/internal/repositories"
	"liberty/internal/server"
	"liberty/internal/services"
	"liberty/internal/storage"
	"liberty/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	app, cleanup, err := NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Info("starting server", "port", cfg.AppPort, "database", cfg.Database.Driver, "images", cfg.Images.Dir)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error("server failed to start", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error("error during fiber shutdown", "error", err)
	}

	log.Info("server gracefully stopped")
}

// NewApp wires repositories, image storage, the optional event publisher and
// the HTTP routes. The returned cleanup releases the database and broker.
func NewApp(cfg config.Config, log *slog.Logger) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	productRepo, categoryRepo, closeDB, err := openRepositories(cfg, log)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeDB)

	if cfg.SeedCategories {
		if err := database.SeedCategories(categoryRepo, log); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	images := storage.NewImageStore(afero.NewOsFs(), cfg.Images.Dir)
	if err := images.Ensure(); err != nil {
		cleanup()
		return nil, func() {}, err
	}

	// A nil publisher disables lifecycle events.
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, log)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() {
			if err := mqClient.Close(); err != nil {
				log.Warn("failed to close rabbitmq client", "error", err)
			}
		})
		publisher = mqClient
	} else {
		log.Info("RABBITMQ_URL is empty, product events are disabled")
	}

	productService := services.NewProductService(productRepo, categoryRepo, images, publisher, log, services.Options{
		MaxImageSizeMB: cfg.Images.MaxSizeMB,
		Exchange:       cfg.RabbitMQ.Exchange,
	})

	return server.New(cfg, productService, log), cleanup, nil
}

func openRepositories(cfg config.Config, log *slog.Logger) (repositories.ProductRepository, repositories.CategoryRepository, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		categoryRepo := repositories.NewMockCategoryRepository()
		return repositories.NewMockProductRepository(categoryRepo), categoryRepo, func() {}, nil
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("failed to close database", "error", err)
			}
		}
	}

	if err := database.Migrate(db); err != nil {
		closeDB()
		return nil, nil, nil, err
	}

	return repositories.NewGORMProductRepository(db), repositories.NewGORMCategoryRepository(db), closeDB, nil
}
