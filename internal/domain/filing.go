package domain

import (
	"fmt"
	"strings"
	"time"
)

// FormType enumerates the dilution filings we report on.
type FormType string

const (
	Offering424  FormType = "424"
	Quarterly10Q FormType = "10-Q"
)

// FilingEntry is a single filing found in the OTC Markets filings list.
type FilingEntry struct {
	FormType     FormType
	ReceivedDate time.Time
	URL          string
}

// String renders the entry as "(dd/mm/yyyy) url".
func (f FilingEntry) String() string {
	return fmt.Sprintf("(%s) %s", f.ReceivedDate.Format("02/01/2006"), f.URL)
}

// Filings groups filing entries by form type. Quarterly holds at most the first match.
type Filings struct {
	Offerings []FilingEntry
	Quarterly []FilingEntry
}

// Render formats the filings as labeled blocks. pageSize is the number of records
// that were scanned and only shows up when nothing was found.
func (f Filings) Render(pageSize int) string {
	var b strings.Builder
	writeBlock := func(label FormType, entries []FilingEntry) {
		if len(entries) == 0 {
			return
		}
		b.WriteString(string(label))
		b.WriteString("\n")
		for i, entry := range entries {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(entry.String())
		}
		b.WriteString("\n")
	}

	writeBlock(Offering424, f.Offerings)
	writeBlock(Quarterly10Q, f.Quarterly)

	if b.Len() == 0 {
		return NoFilingsMessage(pageSize)
	}
	return b.String()
}

// NoFilingsMessage is used when no 424 or 10-Q filing exists in the scanned page.
func NoFilingsMessage(pageSize int) string {
	return fmt.Sprintf("No 424* or 10-Qs found in first %d entries", pageSize)
}
