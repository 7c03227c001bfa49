package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"catalog/manager/internal/config"
	"catalog/manager/internal/container"
	"catalog/manager/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg.Log, os.Stderr); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	log.Debug("Configuration loaded successfully")

	app := container.New(cfg, os.Stdin, os.Stdout)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Errorf("Application exited with error: %v", err)
		stop()
		app.Close()
		os.Exit(1)
	}
}
