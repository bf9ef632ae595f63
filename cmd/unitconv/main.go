// Package main contains the entrypoint for the unitconv web service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kvolkova/unitconv/internal/app"
	"github.com/kvolkova/unitconv/internal/config"
	"github.com/kvolkova/unitconv/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run loads configuration, sets up logging, and runs the application until
// the context is cancelled, returning the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		return 1
	}

	log.Info("Starting unitconv...", "addr", cfg.Server.Addr)
	runErr := a.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Service stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Service stopped gracefully.")
	return 0
}
