package ports

import (
	"context"

	"TickerScanner/internal/domain"
)

// TickerSource gathers all site data for one ticker symbol.
type TickerSource interface {
	Collect(ctx context.Context, symbol string) (domain.TickerRecord, error)
}

// UpdateSource blocks until a new ticker request arrives from the chat.
type UpdateSource interface {
	Poll(ctx context.Context) (domain.PollResult, error)
}

// Notifier delivers a text message to the requesting chat.
type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}

// Mirror receives a copy of every delivered summary (e-mail, etc.).
type Mirror interface {
	PublishSummary(ctx context.Context, symbol, text string) error
}
