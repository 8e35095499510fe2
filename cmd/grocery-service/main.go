package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andreasstove999/grocery-service-go/internal/app"
	"github.com/andreasstove999/grocery-service-go/internal/billing"
	"github.com/andreasstove999/grocery-service-go/internal/config"
	httpapi "github.com/andreasstove999/grocery-service-go/internal/http"
	"github.com/andreasstove999/grocery-service-go/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogPretty).With().Str("service", "grocery-service").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.NewInventory(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open inventory")
	}
	defer closeStore()

	publisher, closePublisher, err := app.NewPublisher(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create checkout publisher")
	}
	defer closePublisher()

	ledger := billing.NewLedger(store, logger)
	handler := httpapi.NewHandler(store, ledger, publisher, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, cfg.CORSAllowOrigins),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("grocery-service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		closePublisher()
		closeStore()
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
