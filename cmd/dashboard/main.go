package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/fawnlabs/weather-dashboard/internal/adapter/http"
	"github.com/fawnlabs/weather-dashboard/internal/config"
	"github.com/fawnlabs/weather-dashboard/internal/dataset"
	"github.com/fawnlabs/weather-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := dataset.NewLoader(logger, cfg.StrictTimestamps)
	store := dataset.NewStore(loader)

	// Load the dataset up front; the service has nothing to serve without it.
	ds, err := store.Get(cfg.DataPath)
	if err != nil {
		logger.Error("failed to load weather data", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	metrics.DatasetRows.Set(float64(len(ds.Rows)))
	metrics.DatasetLoads.Inc()
	metrics.CoercedTimestamps.Set(float64(ds.CoercedTimestamps))
	logger.Info("weather data loaded",
		"path", ds.Path,
		"rows", len(ds.Rows),
		"stations", len(ds.Stations()),
		"coerced_timestamps", ds.CoercedTimestamps,
	)

	srv := httpadapter.NewServer(cfg, store, store, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
