package domain

import "strings"

// Unknown stands in for any value that could not be extracted from an upstream site.
const Unknown = "Unknown"

// Field names a single value produced by a site extractor.
type Field string

const (
	FieldShortInterest   Field = "short_interest"
	FieldPublicFloat     Field = "public_float"
	FieldPremarketVolume Field = "premarket_volume"
	FieldDilution        Field = "dilution"
)

// TickerRecord is the aggregated snapshot delivered for one ticker symbol.
type TickerRecord struct {
	Symbol          string
	ShortInterest   string
	PublicFloat     string
	PremarketVolume string
	Dilution        string
	ChartURL        string
}

// NewTickerRecord upper-cases the symbol and fills every missing field with Unknown.
func NewTickerRecord(symbol string, fields map[Field]string, chartURL string) TickerRecord {
	value := func(f Field) string {
		if v, ok := fields[f]; ok && v != "" {
			return v
		}
		return Unknown
	}

	return TickerRecord{
		Symbol:          strings.ToUpper(symbol),
		ShortInterest:   value(FieldShortInterest),
		PublicFloat:     value(FieldPublicFloat),
		PremarketVolume: value(FieldPremarketVolume),
		Dilution:        value(FieldDilution),
		ChartURL:        chartURL,
	}
}

// PollResult carries the raw ticker input and the requester of one accepted update.
// Absent values are empty strings.
type PollResult struct {
	TickerInput string
	ChatID      string
}

// Empty reports whether either part of the result is absent.
func (p PollResult) Empty() bool {
	return p.TickerInput == "" || p.ChatID == ""
}
