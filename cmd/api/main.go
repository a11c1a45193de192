package main

import (
	"log"

	"github.com/Colman1000/tongues-of-fire/internal/bootstrap"
	"github.com/Colman1000/tongues-of-fire/internal/shared/config"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
