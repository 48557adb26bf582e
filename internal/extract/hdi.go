package extract

import (
	"regexp"
	"strings"

	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/text"
)

func init() {
	register(hdiTraffic)
	register(hdiTraffic2026)
}

// Legacy HDI traffic layout. The insured name sits on a labelled table row,
// sometimes wrapped onto the next line.
var hdiTraffic = &Descriptor{
	Type:        model.TypeTraffic,
	Carrier:     model.CarrierHDI,
	InsuredFunc: hdiInsured,
	Date: []Rule{
		{Pattern: regexp.MustCompile(`BAŞLANGIÇ\s*TARİHİ\s*[:\s]*(\d{2}/\d{2}/\d{4})`)},
	},
	CustomerNo: []Rule{
		{Pattern: regexp.MustCompile(`MÜŞTERİ\s*NO\s*[:.\s]*(\d{6,})`)},
	},
	PolicyNo: []Rule{
		{Pattern: regexp.MustCompile(`POLİÇE\s*NO\s*[:\s]*(\d{10,}[-\d]*)`)},
	},
	Plate: []Rule{
		{Pattern: regexp.MustCompile(`PLAKA\s*NO.*?\s*(\d{2,3}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	Brand: []Rule{
		{Pattern: regexp.MustCompile(`MODEL\s*/\s*MARKA\s*[:\s]*\d{4}\s+([A-ZÇĞİÖŞÜ\s\-]+)`), Clean: firstWord},
	},
	AmountFunc: func(d *Document) string {
		return windowAmount(d.Upper, 100, "TOPLAM PRİM", "TOPLAM PRIM", "ÖDENECEK", "GENEL TOPLAM")
	},
}

// Revised HDI traffic layout rolled out in 2026: single "Ad Soyad / Ünvan"
// line, combined start-end date, no customer number.
var hdiTraffic2026 = &Descriptor{
	Type:        model.TypeTraffic,
	Carrier:     model.CarrierHDI,
	Layout:      model.LayoutHDI2026,
	InsuredFunc: hdi2026Insured,
	Date: []Rule{
		{Pattern: regexp.MustCompile(`BAŞLANGIÇ[-\s]*BİTİŞ\s*TARİHİ\s+(\d{2}/\d{2}/\d{4})`)},
		{Pattern: regexp.MustCompile(`BA[SŞ]LANGI[ÇC][-\s]*B[İI]T[İI][SŞ]\s*TAR[İI]H[İI]\s+(\d{2}/\d{2}/\d{4})`)},
	},
	PolicyNo: []Rule{
		{Pattern: regexp.MustCompile(`POLİÇE\s*NO\s+(\d{10,})`)},
	},
	Plate: []Rule{
		{Pattern: regexp.MustCompile(`PLAKA\s*NO\s+(\d{2}[A-Z]{1,4}\d{2,5})`)},
	},
	Brand: []Rule{
		{Pattern: regexp.MustCompile(`MARKA\s+([A-ZÇĞİÖŞÜ]+)`)},
		{In: InClean, Pattern: regexp.MustCompile(`(?:MARKA|Marka)\s+([A-Za-zÇĞİÖŞÜçğıöşü]+)`), Clean: text.Upper},
	},
	AmountFunc: func(d *Document) string {
		if m := hdi2026Amount.FindStringSubmatch(d.Upper); m != nil {
			return m[1]
		}
		return windowAmount(d.Upper, 100, "TOPLAM PRİM", "TOPLAM PRIM", "ÖDENECEK")
	},
}

var hdi2026Amount = regexp.MustCompile(`TOPLAM\s+ÖDENECEK\s+PRİM\s+([\d.,]+)\s*TL`)

// hdiInsured scans for the "Adı Soyadı / Ünvanı" table row. The value is
// either on the same line or wrapped to the next one.
func hdiInsured(d *Document) string {
	for i, line := range d.Lines {
		up := text.Upper(strings.TrimSpace(line))
		if !strings.Contains(up, "ADI SOYADI") || !strings.Contains(up, "ÜNVANI") {
			continue
		}
		candidate := up
		for _, label := range []string{"ADI SOYADI", "UNVANI", "ÜNVANI", "/", ":"} {
			candidate = strings.ReplaceAll(candidate, label, "")
		}
		candidate = strings.TrimSpace(candidate)
		if len([]rune(candidate)) > 3 {
			return dropDigitWords(candidate)
		}
		if i+1 < len(d.Lines) {
			next := text.Upper(strings.TrimSpace(d.Lines[i+1]))
			if len([]rune(next)) > 3 && !hasPrefixAny(next, "T.C.", "ADRES", "NO:", "MERKEZ", "POLİÇE", "PLAKA", "MÜŞTERİ", "VERGİ") {
				return dropDigitWords(next)
			}
		}
		break
	}
	return ""
}

// hdi2026Insured reads the "Ad Soyad / Ünvan AHMET DEMİR" single-line form.
func hdi2026Insured(d *Document) string {
	for _, line := range d.Lines {
		up := text.Upper(strings.TrimSpace(line))
		if !strings.Contains(up, "AD SOYAD") {
			continue
		}
		if !strings.Contains(up, "/") && !strings.Contains(up, "ÜNVAN") && !strings.Contains(up, "UNVAN") {
			continue
		}
		candidate := up
		switch {
		case strings.Contains(up, "ÜNVAN"):
			candidate = up[strings.Index(up, "ÜNVAN")+len("ÜNVAN"):]
		case strings.Contains(up, "UNVAN"):
			candidate = up[strings.Index(up, "UNVAN")+len("UNVAN"):]
		case strings.Contains(up, "/"):
			parts := strings.Split(up, "/")
			candidate = parts[len(parts)-1]
		default:
			candidate = strings.ReplaceAll(up, "AD SOYAD", "")
		}
		candidate = strings.TrimSpace(candidate)
		if len([]rune(candidate)) > 3 && !strings.Contains(candidate, "SIGORTA") && !strings.Contains(candidate, "SİGORTA") && !strings.Contains(candidate, "KİMLİK") {
			return dropDigitWords(candidate)
		}
	}
	return ""
}

func hasPrefixAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
