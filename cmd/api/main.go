package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neon-market/internal/auth"
	"neon-market/internal/catalog"
	"neon-market/internal/config"
	"neon-market/internal/database"
	"neon-market/internal/handler"
	"neon-market/internal/repository"
	"neon-market/internal/router"
	"neon-market/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting neon-market API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	purchasedRepo := repository.NewPurchasedProductRepository(pool, logger)

	// Initialize catalogue seed loader with S3 and local fallback
	fileLoader := catalog.NewFileLoader(logger)
	var seedLoader catalog.Loader = fileLoader

	if cfg.Catalog.S3Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			seedLoader = catalog.NewFallbackLoader(s3Loader, fileLoader, true, logger)
		}
	} else {
		logger.Info().Msg("using local file system for catalogue seed files (S3 disabled)")
	}

	// Seed the catalogue before serving traffic
	seeder := catalog.NewSeeder(seedLoader, productRepo, logger)
	if err := seeder.Seed(ctx, cfg.Catalog.SeedPath); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	// Admin role cache shared by the middleware and the auth service
	roleCache := auth.NewRoleCache(cfg.Auth.RoleCacheTTL, cfg.Auth.RoleCacheMaxEntries, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	purchasedService := service.NewPurchasedProductService(purchasedRepo, logger)
	authService := service.NewAuthService(userRepo, roleCache, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:      handler.NewProductHandler(productService, logger),
		Cart:         handler.NewCartHandler(cartService, logger),
		Purchase:     handler.NewPurchaseHandler(checkoutService, logger),
		Order:        handler.NewOrderHandler(orderService, logger),
		Purchased:    handler.NewPurchasedHandler(purchasedService, logger),
		AdminProduct: handler.NewAdminProductHandler(productService, logger),
		Auth:         handler.NewAuthHandler(authService, logger),
	}

	// Initialize router
	mux := router.New(handlers, userRepo, roleCache, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
