package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"

	"github.com/mth/switcheroo/cmd/switcheroo/shared"
	"github.com/mth/switcheroo/internal/server"
)

// ServeCmd runs the WebSocket game server
type ServeCmd struct {
	Config string `kong:"default='switcheroo.hcl',help='Path to HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for all sessions (optional)'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Server.Seed = c.Seed
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel)
	if cfg.Server.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *cfg.Server.Seed)
	}

	s := server.NewServer(cfg, logger, quartz.NewReal())

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
