package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"TickerScanner/internal/config"
	"TickerScanner/internal/infrastructure/email"
	"TickerScanner/internal/infrastructure/parser"
	"TickerScanner/internal/infrastructure/telegram"
	"TickerScanner/internal/logging"
	"TickerScanner/internal/scanner"
	"TickerScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance; every component logs through logs.
func New(cfg config.Config, logs *logging.Factory) *Application {
	if logs == nil {
		logs = logging.NewFactory(cfg.Logging.Level, "")
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	ua := cfg.HTTP.UserAgent

	registry := scanner.NewRegistry()
	registry.Register(parser.NewFinvizScanner(httpClient, ua, logs.Component("scanner.finviz")))
	registry.Register(parser.NewMarketWatchScanner(httpClient, ua, logs.Component("scanner.marketwatch")))
	registry.Register(parser.NewOTCMarketsScanner(httpClient, ua, cfg.Filings.Location(), logs.Component("scanner.otcmarkets")))

	source := parser.NewStrategySource(registry, cfg.Sites, cfg.Chart.URLTemplate, logs.Component("source"))
	bot := telegram.NewClient(cfg.Telegram, logs.Component("telegram"))

	deps := usecase.PipelineDeps{
		Updates:  bot,
		Source:   source,
		Notifier: bot,
		Logger:   logs.Component("pipeline"),
	}
	if cfg.Email.Enabled() {
		deps.Mirror = email.NewSender(cfg.Email, logs.Component("email"))
	}

	return &Application{
		cfg:      cfg,
		pipeline: usecase.NewPipeline(deps),
		logger:   logs.Component("app"),
	}
}

// Run answers chat requests until ctx is done or polling hits a parsing failure.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is not configured")
	}

	a.logger.Info("ticker scanner started", "sites", len(a.cfg.Sites), "email_mirror", a.cfg.Email.Enabled())
	return a.pipeline.Run(ctx)
}
