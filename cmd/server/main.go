package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront-account/config"
	"github.com/ikkim/storefront-account/internal/app/controller"
	"github.com/ikkim/storefront-account/internal/app/repository"
	"github.com/ikkim/storefront-account/internal/app/service"
	"github.com/ikkim/storefront-account/internal/app/view"
	"github.com/ikkim/storefront-account/internal/db"
	"github.com/ikkim/storefront-account/internal/middleware"
	"github.com/ikkim/storefront-account/internal/router"
	"github.com/ikkim/storefront-account/internal/scheduler"
	"github.com/ikkim/storefront-account/internal/session"
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/ikkim/storefront-account/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting storefront account server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"db_driver":   cfg.Database.Driver,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Session store
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()
	sessions := session.NewManager(session.NewStore(redis.GetClient(), cfg.Session.TTL), session.Options{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())

	// Initialize services
	orderService := service.NewOrderService(orderRepo)
	profileService := service.NewProfileService(userRepo, addressRepo, orderService)
	wishlistService := service.NewWishlistService(wishlistRepo, cartRepo, productRepo, db.GetDB())
	registrationService := service.NewRegistrationService(userRepo)

	// Background jobs
	wishlistScheduler := scheduler.NewWishlistScheduler(wishlistService, cfg.Jobs.WishlistPruneSpec)
	if err := wishlistScheduler.Start(); err != nil {
		logger.Fatal("Failed to start wishlist scheduler", err)
	}
	defer wishlistScheduler.Stop()

	// Initialize controllers
	orderController := controller.NewOrderController(orderService)
	profileController := controller.NewProfileController(profileService)
	wishlistController := controller.NewWishlistController(wishlistService)
	registrationController := controller.NewRegistrationController(registrationService, cfg.Storefront.LoginPath)
	healthController := controller.NewHealthController(db.GetDB(), redis.GetClient())

	renderer, err := view.NewRenderer(view.Config{
		StoreName:      cfg.Storefront.Name,
		CurrencySymbol: cfg.Storefront.CurrencySymbol,
	})
	if err != nil {
		logger.Fatal("Failed to parse templates", err)
	}

	// Setup router
	r := router.NewRouter(
		orderController,
		profileController,
		wishlistController,
		registrationController,
		healthController,
		middleware.NewAccountMiddleware(cfg.Storefront.LoginPath),
		sessions,
		renderer,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped successfully")
}
