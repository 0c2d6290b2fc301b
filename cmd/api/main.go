package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ballotline/ballotline-api/internal/config"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/media"
	"github.com/ballotline/ballotline-api/internal/server"
	"github.com/ballotline/ballotline-api/internal/services"
	"github.com/ballotline/ballotline-api/internal/storage"
)

func main() {
	cfg := config.Load()

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log := logger.Get()

	log.Info("Starting Ballotline API")

	store, err := storage.Open(cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// The object store is optional; without it candidate image uploads are
	// rejected with a validation error.
	var images services.ImageStore
	if cfg.Media.Enabled {
		imageStore, err := media.NewStore(cfg)
		if err != nil {
			log.Error("Failed to initialize media store", "error", err)
			os.Exit(1)
		}
		images = imageStore
	} else {
		log.Warn("Media store not configured, candidate image uploads disabled")
	}

	srv := server.New(cfg, store, images)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	log.Info("Ballotline API stopped")
}
