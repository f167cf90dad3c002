package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/airport-go/docs"
	"github.com/kirinyoku/airport-go/internal/app"
	"github.com/kirinyoku/airport-go/internal/config"
)

// @title        Airport API
// @version      1.0
// @description  Flight catalogue and ticket booking.
// @BasePath     /
func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("app stopped with error", "error", err)
		os.Exit(1)
	}
}
