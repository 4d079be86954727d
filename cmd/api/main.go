package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bricesuazo/eboto-api/internal/config"
	"github.com/bricesuazo/eboto-api/internal/logger"
	"github.com/bricesuazo/eboto-api/internal/server"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log := logger.Get()

	repos, err := postgres.NewContainer(cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	srv := server.New(cfg, repos)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error("Failed to shut down gracefully", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
