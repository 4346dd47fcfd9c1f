package usecase

import (
	"fmt"
	"strings"
	"time"

	"TickerScanner/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

// FormatMessage renders a record as the chat reply, one labeled line per field.
func FormatMessage(record domain.TickerRecord, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%s)\n", now.Format(timestampLayout))
	fmt.Fprintf(&b, "Ticker: %s\n", record.Symbol)
	fmt.Fprintf(&b, "Public Float: %s\n", record.PublicFloat)
	fmt.Fprintf(&b, "Short Interest: %s\n", record.ShortInterest)
	fmt.Fprintf(&b, "Premarket Vol: %s\n", record.PremarketVolume)
	fmt.Fprintf(&b, "Filings: \n%s\n", record.Dilution)
	fmt.Fprintf(&b, "Chart URL: %s\n", record.ChartURL)
	return b.String()
}

// FormatParsingFailure tells the requester that one ticker could not be read.
func FormatParsingFailure(symbol string, err error, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%s)\n", now.Format(timestampLayout))
	fmt.Fprintf(&b, "Ticker: %s\n", strings.ToUpper(symbol))
	fmt.Fprintf(&b, "Could not read upstream data: %v\n", err)
	return b.String()
}
