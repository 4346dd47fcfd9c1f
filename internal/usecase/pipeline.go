package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"TickerScanner/internal/domain"
	"TickerScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the request loop.
type PipelineDeps struct {
	Updates  ports.UpdateSource
	Source   ports.TickerSource
	Notifier ports.Notifier
	Mirror   ports.Mirror
	Logger   *slog.Logger
	Now      func() time.Time
}

// Pipeline implements the poll, collect, format, notify cycle.
type Pipeline struct {
	updates  ports.UpdateSource
	source   ports.TickerSource
	notifier ports.Notifier
	mirror   ports.Mirror
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		updates:  deps.Updates,
		source:   deps.Source,
		notifier: deps.Notifier,
		mirror:   deps.Mirror,
		logger:   log,
		now:      now,
	}
}

// Run cycles until polling fails for good or ctx is done. Requests are handled one at a
// time, in arrival order.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.updates == nil || p.source == nil || p.notifier == nil {
		return fmt.Errorf("pipeline is not fully wired")
	}

	for {
		if err := p.RunOnce(ctx); err != nil {
			return err
		}
	}
}

// RunOnce waits for one request and answers it.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	poll, err := p.updates.Poll(ctx)
	if err != nil {
		return fmt.Errorf("poll updates: %w", err)
	}
	if poll.Empty() {
		return nil
	}
	return p.ProcessRequest(ctx, poll)
}

// ProcessRequest answers every ticker of a request in order. A parsing failure aborts only
// the ticker it belongs to; the requester is told and the next ticker proceeds.
func (p *Pipeline) ProcessRequest(ctx context.Context, poll domain.PollResult) error {
	log := p.logger.With("request_id", uuid.NewString(), "chat_id", poll.ChatID)
	symbols := SplitTickers(poll.TickerInput)
	log.Info("processing request", "tickers", symbols)

	for _, symbol := range symbols {
		message, summary, err := p.processTicker(ctx, symbol)
		if err != nil {
			if !domain.IsParsingError(err) {
				return fmt.Errorf("ticker %s: %w", symbol, err)
			}
			log.Error("ticker aborted", "ticker", symbol, "error", err)
			message = FormatParsingFailure(symbol, err, p.now())
		}

		if err := p.notifier.Send(ctx, poll.ChatID, message); err != nil {
			return fmt.Errorf("send %s: %w", symbol, err)
		}

		if summary && p.mirror != nil {
			if err := p.mirror.PublishSummary(ctx, strings.ToUpper(symbol), message); err != nil {
				log.Warn("mirror summary failed", "ticker", symbol, "error", err)
			}
		}
	}

	return nil
}

func (p *Pipeline) processTicker(ctx context.Context, symbol string) (string, bool, error) {
	record, err := p.source.Collect(ctx, symbol)
	if err != nil {
		return "", false, err
	}
	return FormatMessage(record, p.now()), true, nil
}

// SplitTickers removes all whitespace from raw input and splits it on commas.
// Empty segments are dropped.
func SplitTickers(raw string) []string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	var symbols []string
	for _, part := range strings.Split(compact, ",") {
		if part != "" {
			symbols = append(symbols, part)
		}
	}
	return symbols
}
