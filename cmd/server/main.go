// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

// Command server runs the Tessero recommendation HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Wesley3141/tessero/internal/api"
	"github.com/Wesley3141/tessero/internal/config"
	"github.com/Wesley3141/tessero/internal/logging"
	"github.com/Wesley3141/tessero/internal/recommend"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tessero:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	log := logging.Logger()

	engine, err := recommend.NewEngine(&cfg.Engine, log)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	if _, err := os.Stat(cfg.SnapshotPath); err == nil {
		if err := engine.LoadModel(cfg.SnapshotPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.SnapshotPath).
				Msg("model snapshot unusable, starting untrained")
		} else {
			log.Info().Str("path", cfg.SnapshotPath).
				Time("trained_at", engine.LastTrainingTime()).
				Int("events", engine.EventCount()).
				Msg("model snapshot restored")
		}
	}

	handler := api.NewHandler(engine, cfg.SnapshotPath)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, cfg.Server.CORSAllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
