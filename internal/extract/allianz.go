package extract

import (
	"regexp"
	"strings"

	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/text"
)

func init() {
	register(allianzTraffic)
	register(allianzCasco)
}

// Allianz keeps stable mixed-case labels, so most rules run on the cleaned
// original text. Policy numbers use the 0001-0210-63424647 segment format.

var allianzTraffic = &Descriptor{
	Type:        model.TypeTraffic,
	Carrier:     model.CarrierAllianz,
	InsuredFunc: allianzInsured,
	Date: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Başlangıç\s*Tarihi\s*[:\s]*(\d{2}/\d{2}/\d{4})`)},
	},
	PolicyNo: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Poliçe\s*No\s*[:\s]*(\d{4}-\d{4}-\d{8})`)},
		{Pattern: regexp.MustCompile(`POLİÇE\s*NO\s*[:\s]*([\d\-]{10,})`)},
	},
	Plate: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Plaka\s*No\s*[:\s]*(\d{2,3}\s*[A-ZÇĞİÖŞÜ]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	Brand: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`Marka\s*[:\s]*([A-ZÇĞİÖŞÜa-zçğıöşü\-]+)`), Clean: upperBrand},
	},
	Amount: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Ödenecek\s*Prim\s*[:\s]*([\d.,]+)\s*TL`)},
		// Payment plan row: the down payment equals the full premium on
		// single-installment policies.
		{In: InClean, Pattern: regexp.MustCompile(`PEŞİNAT\s*[:\s]*\d{2}/\d{2}/\d{4}\s*([\d.,]+)\s*TL`)},
	},
}

var allianzCasco = &Descriptor{
	Type:    model.TypeCasco,
	Carrier: model.CarrierAllianz,
	Insured: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`Sigortalı\s*Adı/Unvanı\s*[:\s]*([A-ZÇĞİÖŞÜa-zçğıöşü\s.]+?)\s*(?:TCKN|T\.C\.|VKN|\d{10})`), Clean: text.Upper},
		{In: InClean, Pattern: regexp.MustCompile(`Sayın\s+([A-ZÇĞİÖŞÜa-zçğıöşü\s.]+?)\s*[,.]`), Clean: text.Upper},
	},
	Date: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Başlangıç\s*Tarihi\s*[:\s]*(\d{2}/\d{2}/\d{4})`)},
	},
	PolicyNo: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Poliçe\s*No[:\s]*(\d{4}-\d{4}-\d{8})`)},
		{In: InClean, Pattern: regexp.MustCompile(`(?i)no'lu\s*Allianz\s*Kasko.*?(\d{4}-\d{4}-\d{8})`)},
		{In: InClean, Pattern: regexp.MustCompile(`(\d{4}-\d{4}-\d{8})`)},
	},
	Plate: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Plaka\s*No\s*[:\s]*(\d{2,3}\s*[A-ZÇĞİÖŞÜ]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
		{In: InClean, Pattern: regexp.MustCompile(`(?i)(\d{2}\s*[A-ZÇĞİÖŞÜ]{2,4}\s*\d{2,4})\s*plakalı`), Clean: stripSpaces},
	},
	Brand: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`Marka\s*[:\s]*([A-ZÇĞİÖŞÜa-zçğıöşü\-]+)`), Clean: upperBrand},
		{In: InClean, Pattern: regexp.MustCompile(`(?i)([A-ZÇĞİÖŞÜ]+)\s*\(\d+\)\s*marka`), Clean: text.Upper},
	},
	Amount: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)ÖDENECEK\s*PRİM\s*[:\s]*([\d.,]+)\s*TL`)},
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Brüt\s*Prim\s*[:\s]*([\d.,]+)\s*TL`)},
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Toplam\s*Prim\s*[:\s]*([\d.,]+)\s*TL`)},
	},
}

func upperBrand(s string) string {
	return stripParenCode(text.Upper(s))
}

// allianzInsured scans for the "Adı Soyadı : İSİM SOYİSİM" line and keeps the
// leading run of alphabetic words, stopping at the first number.
func allianzInsured(d *Document) string {
	for _, line := range d.Lines {
		if !strings.Contains(line, "Adı Soyadı") || !strings.Contains(line, ":") {
			continue
		}
		_, after, _ := strings.Cut(line, ":")
		var words []string
		for _, w := range strings.Fields(after) {
			if isAlphaWord(w) {
				words = append(words, w)
			} else if len(words) > 0 {
				break
			}
		}
		if len(words) > 0 {
			return text.Upper(strings.Join(words, " "))
		}
	}
	return ""
}

func isAlphaWord(w string) bool {
	w = strings.ReplaceAll(w, ".", "")
	if w == "" {
		return false
	}
	for _, r := range w {
		if r >= '0' && r <= '9' {
			return false
		}
		if !strings.ContainsRune("ÇĞİÖŞÜçğıöşü", r) && !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}
