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

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/server"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack records income and expenses per user, organizes them into shared and personal categories, and summarizes them on a dashboard.

// @host      localhost:8080
// @BasePath  /api/v1

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The catalog is validated before touching the database.
	catalog, err := services.LoadCatalog(appConfig.DefaultCategoriesFile)
	if err != nil {
		return fmt.Errorf("failed to load default categories: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.WaitForDatabase(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	dataStore := store.NewGormStore(dbManager.DB())
	svc := server.NewServices(dataStore, catalog, appConfig.DashboardRecentLimit)

	seeded, err := svc.Categories.SeedDefaultCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}
	log.Infow("default categories ready", "inserted", seeded, "catalog", len(catalog))

	router := server.NewRouter(ctx, svc, dataStore, server.Options{
		RateLimitRPS:   appConfig.RateLimitRPS,
		RateLimitBurst: appConfig.RateLimitBurst,
		RequestTimeout: appConfig.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       ioTimeout(appConfig.RequestTimeout),
		WriteTimeout:      ioTimeout(appConfig.RequestTimeout),
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Fintrack server on port %s (%s, %s)", appConfig.Port, appConfig.Env, appConfig.DBDriver)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// ioTimeout gives the server read and write deadlines some slack over the
// request timeout. An unbounded request timeout leaves them unbounded too.
func ioTimeout(requestTimeout time.Duration) time.Duration {
	if requestTimeout <= 0 {
		return 0
	}
	return requestTimeout + 5*time.Second
}
