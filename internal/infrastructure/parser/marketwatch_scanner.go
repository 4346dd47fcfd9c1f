package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"TickerScanner/internal/domain"
	"TickerScanner/internal/scanner"
)

var marketWatchLabels = map[string]domain.Field{
	"Premarket Volume:": domain.FieldPremarketVolume,
}

// MarketWatchScanner reads premarket volume from the MarketWatch quote page.
type MarketWatchScanner struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ scanner.Scanner = (*MarketWatchScanner)(nil)

// NewMarketWatchScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewMarketWatchScanner(client *http.Client, userAgent string, log *slog.Logger) *MarketWatchScanner {
	return &MarketWatchScanner{client: defaultClient(client), userAgent: userAgent, logger: log}
}

// Name identifies the strategy inside the registry.
func (m *MarketWatchScanner) Name() string {
	return "marketwatch"
}

// Scan fetches the quote page and walks its span elements.
func (m *MarketWatchScanner) Scan(ctx context.Context, req scanner.Request) (scanner.Result, error) {
	result := scanner.Result{domain.FieldPremarketVolume: domain.Unknown}

	pageURL, err := buildRequestURL(req.URL, req.Symbol, url.Values{"mod": {"quote_search"}})
	if err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, m.client, pageURL, m.userAgent, m.Name())
	if errors.Is(err, errUnavailable) {
		m.warn("quote page unavailable", "ticker", req.Symbol, "error", err)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	found, err := scanLabels(doc.Find("span"), marketWatchLabels, stripQuoteMarkup, m.Name())
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", req.Symbol, err)
	}
	for field, value := range found {
		result[field] = value
	}

	return result, nil
}

// stripQuoteMarkup drops bg-quote closing tags and surrounding quote characters.
func stripQuoteMarkup(s string) string {
	s = strings.ReplaceAll(s, "</bg-quote>", "")
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"'`)
}

func (m *MarketWatchScanner) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
