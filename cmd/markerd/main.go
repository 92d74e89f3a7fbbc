package main

import (
	"log"

	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/logger"
	"github.com/alkime/knobs/internal/server"
	"github.com/alkime/knobs/internal/store"
	"github.com/alkime/knobs/internal/workdir"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logger := logger.SetupLogger(cfg)

	// Records live on disk, whatever KNOB_STORE says the clients use
	dir := cfg.StorePath
	if dir == "" {
		if dir, err = workdir.MarkersDir(); err != nil {
			log.Fatalf("Failed to locate marker directory: %v", err)
		}
	}

	logger.Info("Starting marker server",
		"env", cfg.Env,
		"port", cfg.Port,
		"dir", dir,
	)

	srv := server.New(cfg, logger, store.NewFile(dir))
	if err := server.Run(srv); err != nil {
		logger.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
