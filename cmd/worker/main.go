package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Colman1000/tongues-of-fire/internal/bootstrap"
	"github.com/Colman1000/tongues-of-fire/internal/shared/config"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	log.Printf("worker started interval=%s", cfg.PollInterval)
	if err := app.Scheduler.Run(ctx); err != nil {
		log.Fatalf("scheduler error: %v", err)
	}
	log.Printf("worker stopped")
}
