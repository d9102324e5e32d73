package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mediwound/wardview/config"
	"github.com/mediwound/wardview/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger := bootstrap.InitLogger(cfg.IsDev)

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) error {
	logger.InfoContext(ctx, "starting wardview",
		slog.String("api", cfg.API.BaseURL),
		slog.String("state_backend", string(cfg.State.Backend)),
		slog.Bool("dev", cfg.IsDev),
	)

	app, closer, err := bootstrap.BuildApp(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close state backend failed", "error", cerr)
			}
		}()
	}

	return app.Run(ctx)
}
