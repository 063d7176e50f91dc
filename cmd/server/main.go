package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tienda-console/internal/adapters/api"
	"tienda-console/internal/adapters/http/middleware"
	"tienda-console/internal/adapters/http/routes"
	"tienda-console/internal/adapters/persistence/models"
	"tienda-console/internal/adapters/persistence/repositories"
	"tienda-console/internal/config"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	_ "tienda-console/docs" // Swagger docs
)

// @title Tienda Console
// @version 1.0
// @description Storefront and admin console in front of the store REST API.
// @description Pages answer JSON view models; sessions travel in the "sid" cookie.

// @contact.name Soporte
// @contact.email soporte@tienda.example.com

// @BasePath /
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg.Log.Level, cfg.Log.Format)

	// Open the session/config store
	store, sweeper, closeStore, err := openStore(cfg)
	if err != nil {
		logg.Fatalf("❌ Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer closeStore()

	// Backend client
	backend := api.New(api.Options{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		UploadTimeout: cfg.API.UploadTimeout,
		Logger:        logg,
	})

	svc, err := services.NewContainer(cfg, store, backend, logg)
	if err != nil {
		logg.Fatalf("❌ Failed to build services: %v", err)
	}

	// Background cleanup
	cronService := services.NewCronService(svc.Cache, svc.Carts, sweeper, cfg.Cache.GCTime, cfg.Storage.SessionMaxAge, logg)
	if err := cronService.Start(); err != nil {
		logg.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Tienda Console v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, svc, backend, store, logg)

	// Graceful shutdown
	go gracefulShutdown(app, svc, logg)

	// Start server
	logg.Infof("🚀 Server starting on port %s [MODE: %s, STORAGE: %s]", cfg.Port, cfg.AppMode, cfg.Storage.Driver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logg.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openStore builds the configured key/value store. sweeper is nil when the
// store expires entries by itself.
func openStore(cfg *config.Config) (repositories.KeyValueStore, repositories.Sweeper, func(), error) {
	var (
		store   repositories.KeyValueStore
		sweeper repositories.Sweeper
		closeFn = func() {}
	)

	switch cfg.Storage.Driver {
	case "mysql":
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := models.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		log.Println("✅ Database migration completed")
		repo := repositories.NewStorageRepository(db)
		store, sweeper = repo, repo
		closeFn = func() { _ = config.CloseDatabase() }
	case "redis":
		client, err := config.ConnectRedis(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		store = repositories.NewRedisStore(client, cfg.Storage.SessionMaxAge)
		closeFn = func() { _ = client.Close() }
	default:
		mem := repositories.NewMemoryStore()
		store, sweeper = mem, mem
	}

	if cfg.Storage.Secret != "" {
		enc, err := repositories.NewEncryptedStore(store, cfg.Storage.Secret)
		if err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		store = enc
		if sweeper != nil {
			sweeper = enc
		}
	}
	return store, sweeper, closeFn, nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, svc *services.Container, logg logrus.FieldLogger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logg.Errorf("❌ Error during shutdown: %v", err)
	}
	svc.Close(5 * time.Second)
	logg.Info("✅ Server stopped gracefully")
}
