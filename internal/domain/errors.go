package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/pretty"
)

const maxSnippetLen = 240

// ParsingError reports an upstream response whose shape no longer matches what we expect:
// a label without its value, a missing JSON key, a malformed record. It is never used for
// a value that simply is not there; that case degrades to Unknown.
type ParsingError struct {
	Source  string
	Reason  string
	Snippet string
}

func (e *ParsingError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s: parsing error: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: parsing error: %s (%s)", e.Source, e.Reason, e.Snippet)
}

// IsParsingError reports whether err wraps a *ParsingError.
func IsParsingError(err error) bool {
	var perr *ParsingError
	return errors.As(err, &perr)
}

// Snippet renders raw upstream bytes for an error message. JSON is compacted onto one line.
func Snippet(raw []byte) string {
	if json.Valid(raw) {
		raw = pretty.Ugly(raw)
	}
	if len(raw) > maxSnippetLen {
		return string(raw[:maxSnippetLen]) + "..."
	}
	return string(raw)
}
