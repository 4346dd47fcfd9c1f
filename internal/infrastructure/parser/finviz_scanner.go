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

var finvizLabels = map[string]domain.Field{
	"Shs Float":   domain.FieldPublicFloat,
	"Short Float": domain.FieldShortInterest,
}

// FinvizScanner reads public float and short interest from the Finviz quote page.
type FinvizScanner struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ scanner.Scanner = (*FinvizScanner)(nil)

// NewFinvizScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewFinvizScanner(client *http.Client, userAgent string, log *slog.Logger) *FinvizScanner {
	return &FinvizScanner{client: defaultClient(client), userAgent: userAgent, logger: log}
}

// Name identifies the strategy inside the registry.
func (f *FinvizScanner) Name() string {
	return "finviz"
}

// Scan fetches the quote page and walks its table cells.
func (f *FinvizScanner) Scan(ctx context.Context, req scanner.Request) (scanner.Result, error) {
	result := scanner.Result{
		domain.FieldShortInterest: domain.Unknown,
		domain.FieldPublicFloat:   domain.Unknown,
	}

	pageURL, err := buildRequestURL(req.URL, req.Symbol, url.Values{"t": {req.Symbol}})
	if err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, pageURL, f.userAgent, f.Name())
	if errors.Is(err, errUnavailable) {
		f.warn("quote page unavailable", "ticker", req.Symbol, "error", err)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	found, err := scanLabels(doc.Find("td"), finvizLabels, strings.TrimSpace, f.Name())
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", req.Symbol, err)
	}
	for field, value := range found {
		result[field] = value
	}

	return result, nil
}

func (f *FinvizScanner) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
