package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"TickerScanner/internal/domain"
	"TickerScanner/internal/scanner"
)

const (
	// FilingsPageSize is the number of filings requested and scanned per ticker.
	FilingsPageSize = 20

	defaultFilingURL = "https://www.otcmarkets.com/filing/html"
	filingURLOption  = "filingUrl"
	guidOffset       = 16
	guidLength       = 15
)

// OTCMarketsScanner summarizes recent dilution filings from the OTC Markets filings API.
type OTCMarketsScanner struct {
	client    *http.Client
	userAgent string
	location  *time.Location
	logger    *slog.Logger
}

var _ scanner.Scanner = (*OTCMarketsScanner)(nil)

// NewOTCMarketsScanner wires an HTTP client and the zone filing dates are rendered in.
func NewOTCMarketsScanner(client *http.Client, userAgent string, loc *time.Location, log *slog.Logger) *OTCMarketsScanner {
	if loc == nil {
		loc = time.UTC
	}
	return &OTCMarketsScanner{client: defaultClient(client), userAgent: userAgent, location: loc, logger: log}
}

// Name identifies the strategy inside the registry.
func (o *OTCMarketsScanner) Name() string {
	return "otcmarkets"
}

// Scan requests the first filings page and renders the 424 and 10-Q entries it holds.
func (o *OTCMarketsScanner) Scan(ctx context.Context, req scanner.Request) (scanner.Result, error) {
	empty := scanner.Result{domain.FieldDilution: domain.NoFilingsMessage(FilingsPageSize)}

	pageURL, err := buildRequestURL(req.URL, req.Symbol, url.Values{
		"symbol":   {req.Symbol},
		"page":     {"1"},
		"pageSize": {strconv.Itoa(FilingsPageSize)},
	})
	if err != nil {
		return nil, err
	}

	resp, err := get(ctx, o.client, pageURL, o.userAgent)
	if err != nil {
		o.warn("filings unavailable", "ticker", req.Symbol, "error", err)
		return empty, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		o.warn("read filings body", "ticker", req.Symbol, "error", err)
		return empty, nil
	}

	filingBase := defaultFilingURL
	if v := req.Options[filingURLOption]; v != "" {
		filingBase = v
	}

	filings, err := parseFilings(body, filingBase, o.location)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", req.Symbol, err)
	}

	return scanner.Result{domain.FieldDilution: filings.Render(FilingsPageSize)}, nil
}

type filingRecord struct {
	FormType     *string         `json:"formType"`
	ReceivedDate *json.Number    `json:"receivedDate"`
	ID           json.RawMessage `json:"id"`
	GUID         *string         `json:"guid"`
}

func parseFilings(body []byte, filingBase string, loc *time.Location) (domain.Filings, error) {
	var filings domain.Filings

	var envelope struct {
		Records *[]json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return filings, &domain.ParsingError{
			Source:  "otcmarkets",
			Reason:  fmt.Sprintf("decode filings response: %v", err),
			Snippet: domain.Snippet(body),
		}
	}
	if envelope.Records == nil {
		return filings, &domain.ParsingError{
			Source:  "otcmarkets",
			Reason:  "can't find 'records' key in JSON",
			Snippet: domain.Snippet(body),
		}
	}

	for _, raw := range *envelope.Records {
		entries, err := classifyRecord(raw, filingBase, loc, len(filings.Quarterly) > 0)
		if err != nil {
			return domain.Filings{}, &domain.ParsingError{
				Source:  "otcmarkets",
				Reason:  fmt.Sprintf("error when parsing JSON record: %v", err),
				Snippet: domain.Snippet(raw),
			}
		}
		for _, entry := range entries {
			switch entry.FormType {
			case domain.Offering424:
				filings.Offerings = append(filings.Offerings, entry)
			case domain.Quarterly10Q:
				filings.Quarterly = append(filings.Quarterly, entry)
			}
		}
	}

	return filings, nil
}

// classifyRecord returns the entries a record contributes. Only the first 10-Q of a
// response is kept, so quarterlyFound suppresses later ones.
func classifyRecord(raw json.RawMessage, filingBase string, loc *time.Location, quarterlyFound bool) ([]domain.FilingEntry, error) {
	var rec filingRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if rec.FormType == nil {
		return nil, errors.New("missing formType")
	}

	var entries []domain.FilingEntry
	if strings.Contains(*rec.FormType, string(domain.Offering424)) {
		entry, err := rec.entry(domain.Offering424, filingBase, loc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if strings.Contains(*rec.FormType, string(domain.Quarterly10Q)) && !quarterlyFound {
		entry, err := rec.entry(domain.Quarterly10Q, filingBase, loc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r filingRecord) entry(form domain.FormType, filingBase string, loc *time.Location) (domain.FilingEntry, error) {
	if r.ReceivedDate == nil {
		return domain.FilingEntry{}, errors.New("missing receivedDate")
	}
	millis, err := r.ReceivedDate.Int64()
	if err != nil {
		return domain.FilingEntry{}, fmt.Errorf("receivedDate: %w", err)
	}

	id := strings.Trim(string(r.ID), `"`)
	if id == "" || id == "null" {
		return domain.FilingEntry{}, errors.New("missing id")
	}
	if r.GUID == nil {
		return domain.FilingEntry{}, errors.New("missing guid")
	}

	filingURL, err := buildFilingURL(filingBase, id, sliceGUID(*r.GUID))
	if err != nil {
		return domain.FilingEntry{}, err
	}

	return domain.FilingEntry{
		FormType:     form,
		ReceivedDate: time.Unix(millis/1000, 0).In(loc),
		URL:          filingURL,
	}, nil
}

// sliceGUID keeps the 15 characters starting at offset 16, clamped to the guid length.
func sliceGUID(guid string) string {
	if len(guid) <= guidOffset {
		return ""
	}
	end := guidOffset + guidLength
	if end > len(guid) {
		end = len(guid)
	}
	return guid[guidOffset:end]
}

func buildFilingURL(base, id, guid string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid filing url %s: %w", base, err)
	}
	// id before guid, as the filing viewer expects.
	parsed.RawQuery = "id=" + url.QueryEscape(id) + "&guid=" + url.QueryEscape(guid)
	return parsed.String(), nil
}

func (o *OTCMarketsScanner) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
