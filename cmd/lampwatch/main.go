package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/lampwatch/internal/config"
	"github.com/crimson-sun/lampwatch/internal/logging"
	"github.com/crimson-sun/lampwatch/internal/postgrest"
	"github.com/crimson-sun/lampwatch/internal/publish"
	"github.com/crimson-sun/lampwatch/internal/status"
	"github.com/crimson-sun/lampwatch/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logging.Init(cfg.LogJSON, logging.ParseLevel(cfg.LogLevel))
	logger := slog.Default()

	client := postgrest.New(cfg.Remote.Endpoint, cfg.Remote.APIKey)

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	var snapStore store.Store
	if cfg.Store.Enabled {
		snapStore, err = store.NewSQLite(cfg.Store.Path)
		if err != nil {
			log.Fatalf("store error: %v", err)
		}
		defer snapStore.Close()
		if err := snapStore.Init(ctx); err != nil {
			log.Fatalf("store init error: %v", err)
		}
		if takenAt, statuses, err := snapStore.LatestSnapshot(ctx); err == nil {
			logger.Info("previous snapshot available", "taken_at", takenAt, "lights", len(statuses))
		}
	}

	var publisher *publish.Publisher
	if cfg.Kafka.Enabled {
		publisher = publish.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer publisher.Close()
	}

	svc := status.NewService(client, snapStore, publisherOrNil(publisher), logger, status.Config{
		ChunkSize:    cfg.Status.ChunkSize,
		ReportCap:    cfg.Status.ReportCap,
		PollInterval: cfg.Status.PollInterval,
	})

	logger.Info("lampwatch starting",
		"endpoint", cfg.Remote.Endpoint,
		"poll_interval", cfg.Status.PollInterval,
		"store", cfg.Store.Enabled,
		"kafka", cfg.Kafka.Enabled,
	)
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("service error: %v", err)
	}
}

// publisherOrNil avoids handing the service a non-nil interface
// wrapping a nil pointer.
func publisherOrNil(p *publish.Publisher) status.Publisher {
	if p == nil {
		return nil
	}
	return p
}
