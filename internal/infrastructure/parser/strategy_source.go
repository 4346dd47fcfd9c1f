package parser

import (
	"context"
	"fmt"
	"log/slog"

	"TickerScanner/internal/config"
	"TickerScanner/internal/domain"
	"TickerScanner/internal/ports"
	"TickerScanner/internal/scanner"
)

// StrategySource implements TickerSource via registered scanner strategies.
type StrategySource struct {
	registry      *scanner.Registry
	sites         []config.SiteConfig
	chartTemplate string
	logger        *slog.Logger
}

var _ ports.TickerSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, chartTemplate string, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:      reg,
		sites:         sites,
		chartTemplate: chartTemplate,
		logger:        log,
	}
}

// Collect runs every configured site for one symbol, in config order, and merges the
// fields into a single record. A parsing failure on any site aborts the whole symbol.
func (s *StrategySource) Collect(ctx context.Context, symbol string) (domain.TickerRecord, error) {
	if s.registry == nil {
		return domain.TickerRecord{}, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("collect ticker", "ticker", symbol, "sites", len(s.sites))

	fields := map[domain.Field]string{}
	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return domain.TickerRecord{}, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			Symbol:   symbol,
			SiteName: site.Name,
			URL:      site.URL,
			Options:  site.Options,
		}

		result, err := strategy.Scan(ctx, req)
		if err != nil {
			return domain.TickerRecord{}, fmt.Errorf("scan site %s: %w", site.Name, err)
		}

		for field, value := range result {
			fields[field] = value
		}
		s.debug("site produced fields", "site", site.Name, "ticker", symbol, "count", len(result))
	}

	return domain.NewTickerRecord(symbol, fields, expandURL(s.chartTemplate, symbol)), nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
