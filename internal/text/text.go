// Package text holds the shared text primitives of the extraction pipeline:
// whitespace cleanup and Turkish-aware case folding. Document text must be
// folded with the Turkish mapping (i→İ, ı→I) or carrier keywords like
// "SİGORTA" never match.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespace = regexp.MustCompile(`\s+`)

// Clean flattens a document into a single line: newlines become spaces and
// runs of whitespace collapse to one space.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

var turkishUpper = cases.Upper(language.Turkish)

// Upper folds s to upper case using Turkish casing rules.
func Upper(s string) string {
	return turkishUpper.String(s)
}
