// Package amount normalizes monetary strings that arrive in two mutually
// ambiguous separator conventions: Turkish ("1.234,56") and US ("1,234.56").
// The canonical form uses "." for thousands and "," for decimals.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySuffixes are stripped before normalization and re-appended after.
// TL is implied and never carried on the canonical string.
var currencySuffixes = []string{"EUR", "USD"}

// Normalize converts a raw amount string to the canonical Turkish convention.
// It is idempotent: a canonical input is returned unchanged. The zero literal
// and the absence placeholder pass through untouched.
func Normalize(raw string) string {
	if raw == "" || raw == "0" || raw == "-" {
		return raw
	}

	currency := ""
	for _, cur := range currencySuffixes {
		if strings.Contains(raw, cur) {
			currency = " " + cur
			raw = strings.TrimSpace(strings.ReplaceAll(raw, cur, ""))
			break
		}
	}

	s := strings.ReplaceAll(raw, " ", "")

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case commas >= 1 && lastDot > lastComma:
		// US convention: 19,320.11. Commas group thousands, the dot is the
		// decimal mark.
		s = strings.ReplaceAll(s, ",", "")
		s = strings.ReplaceAll(s, ".", ",")
	case commas >= 1 && lastComma > lastDot:
		// Already Turkish convention; thousands regrouped below.
	case dots == 1 && commas == 0:
		// Single dot: US decimal form when the fraction is at most 2 digits,
		// otherwise a Turkish thousands separator left alone.
		if frac := s[strings.Index(s, ".")+1:]; len(frac) <= 2 {
			s = strings.ReplaceAll(s, ".", ",")
		}
	}

	if i := strings.Index(s, ","); i >= 0 {
		intPart := strings.ReplaceAll(s[:i], ".", "")
		decPart := s[i+1:]
		s = groupThousands(intPart) + "," + decPart
	}

	return s + currency
}

// groupThousands inserts "." separators every 3 digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

var nonNumeric = regexp.MustCompile(`[A-Za-z\s]`)

// ToNumber parses a canonical amount string into a float. Placeholder,
// empty and zero-literal inputs map to 0.
func ToNumber(canonical string) float64 {
	if canonical == "" || canonical == "-" || canonical == "0" {
		return 0
	}
	s := nonNumeric.ReplaceAllString(canonical, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
