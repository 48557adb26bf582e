package extract

import (
	"regexp"
	"strings"

	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/text"
)

func init() {
	register(ethicaTraffic)
	register(quickTraffic)
	register(sompoTraffic)
	register(dogaTraffic)
	register(hepiyiTraffic)
	register(rayTraffic)
}

var ethicaTraffic = &Descriptor{
	Type:    model.TypeTraffic,
	Carrier: model.CarrierEthica,
	Insured: []Rule{
		{Pattern: regexp.MustCompile(`SİGORTALININ\s*ADI\s*SOYADI.*?:[:\s]*([A-ZÇĞİÖŞÜ\s.]+?)\s*(?:SİGORTALININ\s*ADRESİ|T\.C\.|ADRES)`)},
	},
	Date: []Rule{
		{Pattern: regexp.MustCompile(`BAŞLANGIÇ\s*TARİHİ\s*[:\s]*(\d{2}/\d{2}/\d{4})`)},
	},
	CustomerNo: []Rule{
		{Pattern: regexp.MustCompile(`MÜŞTERİ\s*NO\s*[:\s]*(\d{6,})`)},
	},
	PolicyNo: []Rule{
		{Pattern: regexp.MustCompile(`POLİÇE\s*NO\s*[:\s]*(\d{8,})`)},
	},
	Plate: []Rule{
		{Pattern: regexp.MustCompile(`PLAKA\s*NO\s*[:\s]*(\d{2,3}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	Brand: []Rule{
		// The vehicle table also has a "TİPİ MARKA KODU" header row; reject
		// matches whose preceding token is the header.
		{
			Pattern: regexp.MustCompile(`(\S+)\s+MARKA\s*[:\s]*([A-ZÇĞİÖŞÜ]+)`),
			Group:   2,
			Reject:  func(m []string) bool { return strings.Contains(m[1], "TİPİ") },
		},
		{Pattern: regexp.MustCompile(`MARKA\s*[:\s]*([A-ZÇĞİÖŞÜ]+?)\s+MODEL`)},
	},
	Amount: []Rule{
		{Pattern: regexp.MustCompile(`ÖDENECEK\s*PRİM\s*[:\s]*([\d.,]+)`)},
	},
}

var quickTraffic = &Descriptor{
	Type:    model.TypeTraffic,
	Carrier: model.CarrierQuick,
	Insured: []Rule{
		{Pattern: regexp.MustCompile(`SİGORTALI.*?ADI/ÜNVANI\s*[:\s]*([A-ZÇĞİÖŞÜ\s.]+?)\s*(?:ADRESİ|TELEFON|E-POSTA)`)},
		{Pattern: regexp.MustCompile(`SİGORTALI\s*[:\s]*([A-ZÇĞİÖŞÜ\s.]+?)\s*ADRESİ`)},
	},
	Date: []Rule{
		{Pattern: regexp.MustCompile(`POLİÇE\s*BAŞLANGIÇ\s*TARİHİ\s*[:\s]*(\d{2}/\d{2}/\d{4})`)},
	},
	PolicyNo: []Rule{
		{Pattern: regexp.MustCompile(`POLİÇE\s*NO\s*[:\s]*(\d{10,})`)},
	},
	Plate: []Rule{
		{Pattern: regexp.MustCompile(`PLAKA\s*NO.*?\s*(\d{2}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	BrandFunc: quickBrand,
}

var quickAnchorValue = regexp.MustCompile(`:\s*([^\n]+)`)

// quickBrand recovers the vehicle brand from Quick's key-value table. The
// brand cell carries no label, but it always sits next to the 4-digit model
// year, which is unambiguous. Scan the values in order, anchor on the year,
// and take the neighbor that is not a known non-brand word.
func quickBrand(d *Document) string {
	var values []string
	for _, m := range quickAnchorValue.FindAllStringSubmatch(d.Raw, -1) {
		v := text.Upper(strings.TrimSpace(m[1]))
		if len([]rune(v)) > 1 {
			values = append(values, v)
		}
	}

	yearIdx := -1
	for i, v := range values {
		if len(v) == 4 && isDigits(v) && (strings.HasPrefix(v, "20") || strings.HasPrefix(v, "19")) {
			yearIdx = i
			break
		}
	}
	if yearIdx == -1 {
		return ""
	}

	brand := ""
	if yearIdx > 0 {
		prev := values[yearIdx-1]
		if !containsAny(prev, "OTOMOBİL", "KAMYONET", "HUSUSİ", "TİCARİ", "BENZİN", "DİZEL", "MANUEL", "OTOMATİK", "YOK", "HAYIR", "EVET") && !isDigits(prev) {
			brand = prev
		}
	}
	if len([]rune(brand)) < 2 && yearIdx+1 < len(values) {
		brand = firstWord(values[yearIdx+1])
	}
	if len([]rune(brand)) > 20 || (hasDigit(brand) && !strings.Contains(brand, " ")) {
		return ""
	}
	return brand
}

var sompoTraffic = &Descriptor{
	Type:    model.TypeTraffic,
	Carrier: model.CarrierSompo,
	Insured: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)ADI\s*SOYADI\s*/\s*ÜNVANI.*?:\s*([A-ZÇĞİÖŞÜ\s.]+?)\s*(?:TC\s*KİMLİK|ADRESİ|ADRES)`)},
		{In: InClean, Pattern: regexp.MustCompile(`SİGORTALI.*?[:\s]([A-ZÇĞİÖŞÜ\s]{5,30})`)},
	},
	Date: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)},
	},
	CustomerNo: []Rule{
		// Sompo customer numbers are bare 10-digit tokens starting with 8;
		// phone numbers start with 5 and are rejected in the loose pass.
		{In: InClean, Pattern: regexp.MustCompile(`\b(8\d{9})\b`)},
		{
			In:      InClean,
			Pattern: regexp.MustCompile(`\b([1-9]\d{9})\b`),
			Reject:  func(m []string) bool { return strings.HasPrefix(m[1], "5") },
		},
	},
	PolicyNo: []Rule{
		// Policy numbers are 15-digit tokens starting with 3, printed without
		// a label on most layouts.
		{In: InClean, Pattern: regexp.MustCompile(`\b(3\d{14})\b`)},
		{In: InClean, Pattern: regexp.MustCompile(`(?i)POLİÇE\s*NO\s*[:\s]*(\d{10,})`)},
	},
	Plate: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Plaka\s*No\s*[:\s]*(\d{2}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	Brand: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)EGM\s*Marka\s*Bilgisi\s*[:\s]*([A-ZÇĞİÖŞÜ\s()\-]+?)\s*(?:EGM|Model|Trafik)`)},
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Marka/Tip\s*[:\s]*([A-ZÇĞİÖŞÜ0-9\s().\-]+?)\s*(?:Kullanım|Model|Trafik|EGM|Plaka)`), Clean: firstWord},
	},
}

var dogaTraffic = &Descriptor{
	Type:        model.TypeTraffic,
	Carrier:     model.CarrierDoga,
	InsuredFunc: dogaInsured,
	Date: []Rule{
		{Pattern: regexp.MustCompile(`(?:BAŞLAMA|BAŞLANGIÇ)\s*TARİHİ\s*[:\s]*(\d{2}[/.\-]\d{2}[/.\-]\d{4})`), Clean: normalizeDate},
		{Pattern: regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`), Clean: normalizeDate},
	},
	CustomerNo: []Rule{
		{Pattern: regexp.MustCompile(`MÜŞTERİ\s*NO\s*[:\s]*(\d{6,15})`)},
	},
	PolicyNo: []Rule{
		{Pattern: regexp.MustCompile(`ÜRÜN\s*NO\s*[:/]*\s*(\d{8,})`)},
		{Pattern: regexp.MustCompile(`POLİÇE\s*NO\s*[:\s]*(\d{8,})`)},
	},
	Plate: []Rule{
		{Pattern: regexp.MustCompile(`PLAKA\s*[:\s]*(\d{2,3}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	Brand: []Rule{
		{Pattern: regexp.MustCompile(`EGM\s*ARAÇ\s*BİLGİLERİ.*?MARKA\s*[:\s]*([A-ZÇĞİÖŞÜ]+)`)},
		{Pattern: regexp.MustCompile(`MARKA\s*[:\s]*([A-ZÇĞİÖŞÜ\s]+?)\s+MOTOR`)},
	},
}

var dogaNameFallback = regexp.MustCompile(`SİGORTALI\s+([A-ZÇĞİÖŞÜ\s]{3,40}?)\s+(?:MAH\.|MAHALLESİ|CD\.|CADDE|SK\.|SOKAK|AP\.|NO:)`)

// dogaInsured reads the line after the bare "SİGORTALI" heading, skipping
// address lines that sometimes come first.
func dogaInsured(d *Document) string {
	for i, line := range d.Lines {
		up := text.Upper(strings.TrimSpace(line))
		if up != "SİGORTALI" && up != "SIGORTALI" {
			continue
		}
		if i+1 >= len(d.Lines) {
			break
		}
		candidate := text.Upper(strings.TrimSpace(d.Lines[i+1]))
		if len([]rune(candidate)) <= 3 {
			break
		}
		for _, w := range strings.Fields(candidate) {
			switch w {
			case "MAH", "MAHALLESİ", "CAD", "SOK", "SK", "NO:", "AP", "DAİRE":
				return fallbackMatch(dogaNameFallback, d.Upper)
			}
		}
		return candidate
	}
	return fallbackMatch(dogaNameFallback, d.Upper)
}

func fallbackMatch(re *regexp.Regexp, hay string) string {
	if m := re.FindStringSubmatch(hay); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var hepiyiTraffic = &Descriptor{
	Type:    model.TypeTraffic,
	Carrier: model.CarrierHepiyi,
	Insured: []Rule{
		{Pattern: regexp.MustCompile(`SİGORTALI ADI SOYADI/ÜNVANI\s*[:\s]*([A-ZÇĞİÖŞÜ\s.]+?)\s*(?:KİMLİK|SİGORTALI ADRESİ|T\.C\.)`)},
	},
	Date: []Rule{
		// Hepiyi prints tanzim, start and end dates side by side; the start
		// date is the middle one.
		{Pattern: regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+(\d{2}/\d{2}/\d{4})\s+(\d{2}/\d{2}/\d{4})`), Group: 2},
		{Pattern: regexp.MustCompile(`BAŞLAMA TARİHİ.*?(\d{2}/\d{2}/\d{4})`)},
	},
	CustomerNo: []Rule{
		{Pattern: regexp.MustCompile(`MÜŞTERİ NO\.\s*(\d+)`)},
		{Pattern: regexp.MustCompile(`MÜŞTERİ NO.*?(\d{6,})`)},
	},
	PolicyNo: []Rule{
		{Pattern: regexp.MustCompile(`POLİÇE NO\s*(\d{10,})`)},
		{Pattern: regexp.MustCompile(`POLİÇE NO.*?(\d{10,})`)},
	},
	Plate: []Rule{
		{Pattern: regexp.MustCompile(`PLAKA\s*[:\s]*(\d{2,3}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	Brand: []Rule{
		{Pattern: regexp.MustCompile(`MARKA\s*[:\s]*([A-Z0-9\s\-.]+?)(?:\s*MOTOR|TİPİ)`)},
	},
	Amount: []Rule{
		{Pattern: regexp.MustCompile(`BRÜT PRİM\s*([\d.,]+)`)},
	},
}

var rayTraffic = &Descriptor{
	Type:    model.TypeTraffic,
	Carrier: model.CarrierRay,
	Insured: []Rule{
		{
			Pattern: regexp.MustCompile(`AD\s*SOYAD/?Ü?N?V?A?N?.*?:\s*([A-ZÇĞİÖŞÜ\s.]+?)\s*(?:T\.C\.|TC\.|KİMLİK|ADRES|SİGORTA|VERGİ|MÜŞTERİ|PLAKA|ZEYL|:)`),
			Clean:   rayCleanName,
		},
		{Pattern: regexp.MustCompile(`AD\s*SOYAD/ÜNVAN\s*:\s*([A-ZÇĞİÖŞÜ\s.]+)`)},
	},
	Date: []Rule{
		{Pattern: regexp.MustCompile(`BAŞLANGIÇ\s*TARİHİ\s*[:\s]*(\d{2}/\d{2}/\d{4})`)},
	},
	CustomerNo: []Rule{
		{Pattern: regexp.MustCompile(`SİGORTALI.*?M\.?NO.*?:\s*(\d+)`)},
	},
	PolicyNo: []Rule{
		// Ray policy numbers carry a renewal suffix: 123456789/2.
		{Pattern: regexp.MustCompile(`POLİÇE.*?YENİLEME.*?NO\s*[:\s]*([\d/]+)`)},
	},
	Plate: []Rule{
		{Pattern: regexp.MustCompile(`PLAKA\s*NO\s*:\s*(\d{2,3}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
	Brand: []Rule{
		{Pattern: regexp.MustCompile(`MARKASI\s*:\s*([A-Z0-9\s.\-]+?)\s*TİPİ`)},
		{Pattern: regexp.MustCompile(`EGM\s*MARKA\s*:\s*([A-Z0-9\s.\-]+?)\s*EGM`)},
	},
	Amount: []Rule{
		{Pattern: regexp.MustCompile(`TOPLAM\s*BRÜT\s*PR[İI]M\s*[:\s]*([\d.,]+)`)},
		{Pattern: regexp.MustCompile(`BRÜT\s*PR[İI]M\s*[:\s]*([\d.,]+)`)},
	},
}

// rayCleanName trims label words that bleed into Ray's name capture.
func rayCleanName(s string) string {
	for _, w := range []string{"T.C.", "KİMLİK", "ADRES", "SİGORTA", "VERGİ"} {
		if i := strings.Index(s, w); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "ADRESİ"))
	if len([]rune(s)) <= 2 {
		return ""
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
