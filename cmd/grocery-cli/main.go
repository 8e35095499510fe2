package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/andreasstove999/grocery-service-go/internal/app"
	"github.com/andreasstove999/grocery-service-go/internal/cli"
	"github.com/andreasstove999/grocery-service-go/internal/config"
	"github.com/andreasstove999/grocery-service-go/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	// the menu owns stdout, so logs go to stderr and stay quiet by default
	logger := logging.New(os.Stderr, envOr("LOG_LEVEL", "warn"), cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.NewInventory(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open inventory")
	}
	defer closeStore()

	if err := cli.NewMenu(store, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("read input")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
