package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"TickerScanner/internal/app"
	"TickerScanner/internal/config"
	"TickerScanner/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logs := logging.NewFactory(cfg.Logging.Level, cfg.Logging.Dir)
	defer logs.Close()
	logger := logs.Component("app")

	application := app.New(cfg, logs)

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("application stopped", "error", err)
		logs.Close()
		os.Exit(1)
	}
}
