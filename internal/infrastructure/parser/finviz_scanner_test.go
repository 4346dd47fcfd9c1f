package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"TickerScanner/internal/domain"
	"TickerScanner/internal/scanner"
)

const finvizPage = `
<table class="snapshot-table2">
  <tr>
    <td class="snapshot-td2-cp">Shs Outstand</td><td class="snapshot-td2"><b>20.1M</b></td>
    <td class="snapshot-td2-cp">Shs Float</td><td class="snapshot-td2"><b>5.6M</b></td>
  </tr>
  <tr>
    <td class="snapshot-td2-cp">Short Float</td><td class="snapshot-td2"><b><span style="color:#aa0000;">12.3%</span></b></td>
    <td class="snapshot-td2-cp">Short Ratio</td><td class="snapshot-td2"><b>1.2</b></td>
  </tr>
</table>`

func TestFinvizScanExtractsFloatAndShortInterest(t *testing.T) {
	t.Parallel()

	var gotTicker, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTicker = r.URL.Query().Get("t")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(finvizPage))
	}))
	defer server.Close()

	sc := NewFinvizScanner(server.Client(), "TickerScanner/test", nil)
	res, err := sc.Scan(context.Background(), scanner.Request{Symbol: "abc", URL: server.URL + "/quote.ashx"})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if gotTicker != "abc" {
		t.Fatalf("expected t=abc, got %q", gotTicker)
	}
	if gotAgent != "TickerScanner/test" {
		t.Fatalf("unexpected user agent: %q", gotAgent)
	}
	if res[domain.FieldPublicFloat] != "5.6M" {
		t.Fatalf("unexpected float: %q", res[domain.FieldPublicFloat])
	}
	if res[domain.FieldShortInterest] != "12.3%" {
		t.Fatalf("unexpected short interest: %q", res[domain.FieldShortInterest])
	}
}

func TestFinvizScanMissingLabelsAreUnknown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<table><tr><td>P/E</td><td>12</td></tr></table>`))
	}))
	defer server.Close()

	sc := NewFinvizScanner(server.Client(), "", nil)
	res, err := sc.Scan(context.Background(), scanner.Request{Symbol: "abc", URL: server.URL})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res[domain.FieldPublicFloat] != domain.Unknown || res[domain.FieldShortInterest] != domain.Unknown {
		t.Fatalf("expected Unknown fields, got %+v", res)
	}
}

func TestFinvizScanNonSuccessStatusIsUnknown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(finvizPage))
	}))
	defer server.Close()

	sc := NewFinvizScanner(server.Client(), "", nil)
	res, err := sc.Scan(context.Background(), scanner.Request{Symbol: "abc", URL: server.URL})
	if err != nil {
		t.Fatalf("non-200 must not fail: %v", err)
	}
	if res[domain.FieldPublicFloat] != domain.Unknown || res[domain.FieldShortInterest] != domain.Unknown {
		t.Fatalf("expected Unknown fields, got %+v", res)
	}
}

func TestFinvizScanTransportFailureIsUnknown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	sc := NewFinvizScanner(nil, "", nil)
	res, err := sc.Scan(context.Background(), scanner.Request{Symbol: "abc", URL: url})
	if err != nil {
		t.Fatalf("transport failure must not fail: %v", err)
	}
	if res[domain.FieldShortInterest] != domain.Unknown {
		t.Fatalf("expected Unknown, got %+v", res)
	}
}

func TestFinvizScanLabelWithoutValueIsParsingError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<table><tr><td>Short Ratio</td><td>1.2</td><td>Shs Float</td></tr></table>`))
	}))
	defer server.Close()

	sc := NewFinvizScanner(server.Client(), "", nil)
	_, err := sc.Scan(context.Background(), scanner.Request{Symbol: "abc", URL: server.URL})
	if !domain.IsParsingError(err) {
		t.Fatalf("expected parsing error, got %v", err)
	}
}

func TestScanLabelsLastLabelWins(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td>Shs Float</td><td>1M</td><td>Shs Float</td><td> 2M </td></tr></table>`))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	found, err := scanLabels(doc.Find("td"), finvizLabels, strings.TrimSpace, "finviz")
	if err != nil {
		t.Fatalf("scanLabels: %v", err)
	}
	if found[domain.FieldPublicFloat] != "2M" {
		t.Fatalf("expected 2M, got %q", found[domain.FieldPublicFloat])
	}
	if _, ok := found[domain.FieldShortInterest]; ok {
		t.Fatalf("absent label must not produce a value")
	}
}
