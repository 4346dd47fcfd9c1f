package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TickerScanner/internal/domain"
	"TickerScanner/internal/scanner"
)

const (
	tickerPlaceholder = "{ticker}"
	defaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	defaultTimeout    = 20 * time.Second
)

// errUnavailable marks a transport failure or a non-200 answer. Callers degrade to Unknown.
var errUnavailable = errors.New("site unavailable")

func defaultClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return client
}

// expandURL substitutes the ticker into a configured URL template.
func expandURL(template, symbol string) string {
	return strings.ReplaceAll(template, tickerPlaceholder, url.PathEscape(symbol))
}

func buildRequestURL(template, symbol string, query url.Values) (string, error) {
	parsed, err := url.Parse(expandURL(template, symbol))
	if err != nil {
		return "", fmt.Errorf("invalid site url %s: %w", template, err)
	}

	q := parsed.Query()
	for key, values := range query {
		q[key] = values
	}
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func get(ctx context.Context, client *http.Client, pageURL, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", errUnavailable, pageURL, resp.Status)
	}
	return resp, nil
}

func fetchDocument(ctx context.Context, client *http.Client, pageURL, userAgent, source string) (*goquery.Document, error) {
	resp, err := get(ctx, client, pageURL, userAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &domain.ParsingError{Source: source, Reason: fmt.Sprintf("parse document: %v", err)}
	}
	return doc, nil
}

// scanLabels walks a flat list of elements. An element whose trimmed text matches one of
// labels yields the next element's cleaned text as that field's value. A label with no
// following element is a structural failure.
func scanLabels(items *goquery.Selection, labels map[string]domain.Field, clean func(string) string, source string) (scanner.Result, error) {
	found := scanner.Result{}
	total := items.Length()

	for i := 0; i < total; i++ {
		field, ok := labels[strings.TrimSpace(items.Eq(i).Text())]
		if !ok {
			continue
		}
		if i+1 >= total {
			return nil, &domain.ParsingError{
				Source: source,
				Reason: fmt.Sprintf("no value element after label for %s", field),
			}
		}
		found[field] = clean(items.Eq(i + 1).Text())
	}

	return found, nil
}
