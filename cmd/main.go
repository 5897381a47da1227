package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"brandassets/internal/assets"
	"brandassets/internal/blob"
	"brandassets/internal/cleanup"
	"brandassets/internal/models"
	"brandassets/internal/server"
	"brandassets/internal/storage"
)

func main() {
	cfg, err := models.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := storage.NewStorage(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	defer db.Close()

	blobs := blob.NewLocal(cfg.StoragePath)

	// Failed old-blob deletions go to Kafka for background retry.
	orphans := cleanup.NewQueue(cfg.KafkaBroker, cfg.CleanupTopic)

	ctx, cancel := context.WithCancel(context.Background())
	go cleanup.Run(ctx, cfg.KafkaBroker, cfg.CleanupTopic, blobs)

	svc := assets.NewService(db, blobs, orphans, cfg.PublicPrefix)
	srv := server.NewServer(cfg, svc)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()
	srv.Stop()
	orphans.Close()
}
