package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/eshopper/internal/cart"
	"github.com/Lixing-Zhang/eshopper/internal/catalog"
	"github.com/Lixing-Zhang/eshopper/internal/config"
	"github.com/Lixing-Zhang/eshopper/internal/handlers"
	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/Lixing-Zhang/eshopper/internal/service"
	"github.com/Lixing-Zhang/eshopper/internal/views"
	"github.com/Lixing-Zhang/eshopper/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"catalog", cfg.Catalog.BaseURL,
		"cart_storage", cfg.Cart.Storage,
		"version", version,
	)

	ctx := context.Background()

	storage, closeStorage, err := openStorage(ctx, cfg.Cart, log)
	if err != nil {
		log.Error("failed to open cart storage", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	store := cart.NewStore(ctx, storage, log)
	store.Subscribe(func(lines []models.CartLine) {
		log.Debug("cart changed", "lines", len(lines))
	})
	log.Info("cart loaded", "lines", store.LineCount(), "items", store.ItemsCount())

	products := catalog.NewClient(catalog.Options{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
		Breaker: cfg.Catalog.Breaker,
	}, log)

	renderer, err := views.NewRenderer()
	if err != nil {
		log.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// Initialize services
	cartService := service.NewCartService(products, store)
	checkoutService := service.NewCheckoutService(store)

	router := newRouter(routeHandlers{
		health:   handlers.NewHealthHandler(log, version, cfg.Cart.Storage),
		pages:    handlers.NewPageHandler(products, cartService, checkoutService, renderer, log),
		products: handlers.NewProductHandler(products, log),
		cart:     handlers.NewCartHandler(cartService, log),
		checkout: handlers.NewCheckoutHandler(checkoutService, log),
	}, cfg.Auth, log)

	if len(cfg.Auth.APIKeys) == 0 {
		log.Warn("API_KEYS not set; JSON cart endpoints are unauthenticated")
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("server failed to start", "error", err)
		closeStorage()
		os.Exit(1)
	case <-quit:
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}
