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

	"github.com/gin-gonic/gin"

	"laptop-price/config"
	"laptop-price/services"
	"laptop-price/storage"
	"laptop-price/utils"
	"laptop-price/web"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Laptop price dashboard starting ===")
	logger.Info("Config: catalog: %s | rate: 1 EUR = %.0f IDR | strict brands: %t",
		cfg.CatalogSource, cfg.EURToIDR, cfg.BrandStrict)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	catalog, err := loadCatalog(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("Failed to load catalog: %v", err)
		os.Exit(1)
	}

	scaler, err := services.LoadScaler(cfg.ScalerPath)
	if err != nil {
		logger.Error("Failed to load scaler: %v", err)
		os.Exit(1)
	}
	model, err := services.LoadModel(cfg.ModelPath)
	if err != nil {
		logger.Error("Failed to load model: %v", err)
		os.Exit(1)
	}

	predictor, err := services.NewPredictor(scaler, model, services.PredictorOptions{
		Rate:          cfg.EURToIDR,
		StrictBrand:   cfg.BrandStrict,
		MarketAverage: catalog.Summary().AveragePrice,
	}, logger)
	if err != nil {
		logger.Error("Artifacts do not fit the feature layout: %v", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)
	srv := web.NewServer(catalog, predictor, logger, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Dashboard listening on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed: %v", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server, logger)
}

// loadCatalog reads the whole catalog from the configured source.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*services.CatalogService, error) {
	var reader storage.CatalogReader
	switch cfg.CatalogSource {
	case config.SourceCSV:
		reader = storage.NewCSVReader(cfg.CatalogCSVPath)
	case config.SourcePostgres:
		pg, err := storage.NewPostgresReader(ctx, cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("Check the POSTGRES_* settings and that the server is reachable")
			return nil, err
		}
		reader = pg
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q (want %q or %q)",
			cfg.CatalogSource, config.SourceCSV, config.SourcePostgres)
	}
	defer reader.Close()

	ds, err := reader.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("catalog %s has no rows", ds.Source)
	}
	return services.NewCatalogService(ds, logger), nil
}

func waitForShutdown(server *http.Server, logger *utils.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	logger.Info("Server gracefully stopped")
}
