package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TickerScanner/internal/config"
	"TickerScanner/internal/domain"
	"TickerScanner/internal/scanner"
)

func newSiteServer(t *testing.T, filings string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/quote.ashx", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(finvizPage))
	})
	mux.HandleFunc("/investing/stock/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(marketWatchPage))
	})
	mux.HandleFunc("/sec-filings/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(filings))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestSource(server *httptest.Server) *StrategySource {
	reg := scanner.NewRegistry()
	reg.Register(NewFinvizScanner(server.Client(), "", nil))
	reg.Register(NewMarketWatchScanner(server.Client(), "", nil))
	reg.Register(NewOTCMarketsScanner(server.Client(), "", time.UTC, nil))

	sites := []config.SiteConfig{
		{Name: "finviz", Scanner: "finviz", URL: server.URL + "/quote.ashx"},
		{Name: "marketwatch", Scanner: "marketwatch", URL: server.URL + "/investing/stock/{ticker}"},
		{Name: "otcmarkets", Scanner: "otcmarkets", URL: server.URL + "/sec-filings/{ticker}"},
	}
	return NewStrategySource(reg, sites, "https://finviz.com/quote.ashx?t={ticker}", nil)
}

func TestStrategySourceCollect(t *testing.T) {
	t.Parallel()

	server := newSiteServer(t, filingsResponse)
	record, err := newTestSource(server).Collect(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if record.Symbol != "ABC" {
		t.Fatalf("symbol should be upper-cased, got %s", record.Symbol)
	}
	if record.PublicFloat != "5.6M" || record.ShortInterest != "12.3%" || record.PremarketVolume != "1,234" {
		t.Fatalf("unexpected scraped fields: %+v", record)
	}
	if !strings.HasPrefix(record.Dilution, "424\n") {
		t.Fatalf("unexpected dilution: %q", record.Dilution)
	}
	if record.ChartURL != "https://finviz.com/quote.ashx?t=abc" {
		t.Fatalf("unexpected chart url: %s", record.ChartURL)
	}
}

func TestStrategySourceParsingErrorAbortsTicker(t *testing.T) {
	t.Parallel()

	server := newSiteServer(t, `{"totalRecords": 0}`)
	_, err := newTestSource(server).Collect(context.Background(), "abc")
	if !domain.IsParsingError(err) {
		t.Fatalf("expected parsing error, got %v", err)
	}
	if !strings.Contains(err.Error(), "otcmarkets") {
		t.Fatalf("error should name the site: %v", err)
	}
}

func TestStrategySourceUnregisteredScanner(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(scanner.NewRegistry(), []config.SiteConfig{{Name: "x", Scanner: "nope"}}, "", nil)
	if _, err := src.Collect(context.Background(), "abc"); err == nil {
		t.Fatalf("expected error for unregistered scanner")
	}
}

func TestStrategySourceNoSitesYieldsUnknown(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(scanner.NewRegistry(), nil, "https://finviz.com/quote.ashx?t={ticker}", nil)
	record, err := src.Collect(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if record.ShortInterest != domain.Unknown || record.PublicFloat != domain.Unknown ||
		record.PremarketVolume != domain.Unknown || record.Dilution != domain.Unknown {
		t.Fatalf("expected Unknown fields, got %+v", record)
	}
}
