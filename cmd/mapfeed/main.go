package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/facility-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/facility-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/facility-map-service/internal/config"
	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/couchcryptid/facility-map-service/internal/observability"
	"github.com/couchcryptid/facility-map-service/internal/pipeline"
	"github.com/couchcryptid/facility-map-service/internal/viewstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	opts := domain.ViewOptions{
		Title:           cfg.MapTitle,
		RegionalMap:     cfg.ViewRegionalMap,
		DefaultRegion:   cfg.DefaultRegion,
		ShowHighlights:  cfg.ShowHighlights,
		ShowHeaderImage: cfg.ShowHeaderImage,
		ShowFooterImage: cfg.ShowFooterImage,
	}
	logger.Info("view options",
		"regional_map", opts.RegionalMap,
		"default_region", opts.DefaultRegion,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(domain.HashSelectionIssuer{}, opts, logger, metrics)
	store := viewstore.New()

	p := pipeline.New(reader, transformer, writer, store, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
