package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Shared capture post-processors.

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// normalizeDate rewrites dd.mm.yyyy and dd-mm-yyyy to dd/mm/yyyy.
func normalizeDate(s string) string {
	s = strings.ReplaceAll(s, ".", "/")
	return strings.ReplaceAll(s, "-", "/")
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

var parenCode = regexp.MustCompile(`\s*\(\d+\)`)

// stripParenCode drops trailing vendor codes like "TOFAS-FIAT (100)".
func stripParenCode(s string) string {
	return strings.TrimSpace(parenCode.ReplaceAllString(s, ""))
}

// dropDigitWords removes tokens carrying digits or separators from a captured
// name. Labels and id numbers bleed into name captures on layouts that run
// the label and value together.
func dropDigitWords(s string) string {
	var kept []string
	for _, w := range strings.Fields(s) {
		if strings.ContainsAny(w, "0123456789/:") {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return strings.TrimSpace(strings.SplitN(s, " NO", 2)[0])
	}
	return strings.Join(kept, " ")
}

// Generic premium scan, used when a layout-specific amount rule misses.
// Labelled totals are tried most-specific first; the final resort picks the
// longest TL-suffixed token whose value is plausible for a premium.
var (
	amountLabelled = []*regexp.Regexp{
		regexp.MustCompile(`TOPLAM\s*PRİM\s*[:\s]*([\d.,]+)`),
		regexp.MustCompile(`ÖDENECEK\s*PRİM\s*[:\s]*([\d.,]+)`),
		regexp.MustCompile(`BRÜT\s*PRİM\s*[:\s]*([\d.,]+)`),
		regexp.MustCompile(`POLİÇE\s*PRİMİ\s*[:\s]*([\d.,]+)`),
		regexp.MustCompile(`(?:ÖDENECEK|GENEL\s*TOPLAM|TOPLAM|BRÜT)\s*PRİMİ?[:\s]*([\d.,]+)\s*(?:TL|TRL)?`),
	}
	amountTL = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{3})*[.,]\d{2})\s*TL`)
)

const (
	premiumMin = 10
	premiumMax = 50_000_000
)

// scanAmount searches Turkish-uppercased text for a premium amount. Returns
// the raw (unnormalized) capture, or "" when nothing plausible is found.
func scanAmount(upper string) string {
	for _, re := range amountLabelled {
		if m := re.FindStringSubmatch(upper); m != nil {
			return m[1]
		}
	}

	best := ""
	for _, m := range amountTL.FindAllStringSubmatch(upper, -1) {
		v := m[1]
		plain := strings.ReplaceAll(v, ".", "")
		plain = strings.ReplaceAll(plain, ",", ".")
		d, err := decimal.NewFromString(plain)
		if err != nil {
			continue
		}
		if f := d.InexactFloat64(); f > premiumMin && f < premiumMax && len(v) > len(best) {
			best = v
		}
	}
	return best
}

var moneyTurkish = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*,\d{2})`)

// windowAmount finds the first Turkish-formatted money token within window
// characters after the first of the given keywords. Falls back to the last
// money token anywhere in the text. Used by layouts that print the total in
// a summary box near a label rather than on the label's line.
func windowAmount(upper string, window int, keywords ...string) string {
	for _, kw := range keywords {
		idx := strings.Index(upper, kw)
		if idx < 0 {
			continue
		}
		end := idx + window
		if end > len(upper) {
			end = len(upper)
		}
		if m := moneyTurkish.FindStringSubmatch(upper[idx:end]); m != nil {
			return m[1]
		}
		break
	}
	all := moneyTurkish.FindAllStringSubmatch(upper, -1)
	if len(all) > 0 {
		return all[len(all)-1][1]
	}
	return ""
}
