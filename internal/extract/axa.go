package extract

import (
	"regexp"
	"strings"

	"github.com/cmc-agency/policy-cli/internal/model"
)

// Default-family descriptors. These layouts share a labelled block style
// ("Sigortalının Adı Soyadı", "Poliçe No", "Müşteri No") with stable mixed
// case, so rules run on the cleaned original text with ASCII case folding.

func init() {
	register(travelPolicy)
	register(premisesPolicy)
	register(cargoPolicy)
	register(homePolicy)
	register(healthPolicy)
	register(earthquakePolicy)
	register(vehiclePolicy(model.TypeTraffic))
	register(vehiclePolicy(model.TypeCasco))
}

var (
	axaStartDate = Rule{In: InClean, Pattern: regexp.MustCompile(`(?i)(?:Başlangıç|Tanzim)\s*Tarihi\s*[:\s]*(\d{2}/\d{2}/\d{4})`)}
	axaPolicyNo  = Rule{In: InClean, Pattern: regexp.MustCompile(`(?i)Poliçe\s*No\s*[:\s]*(\d{7,})`)}
	axaCustomer  = Rule{In: InClean, Pattern: regexp.MustCompile(`(?i)Müşteri\s*No\s*[:\s]*(\d{6,15})`)}
	axaInsured   = Rule{In: InClean, Pattern: regexp.MustCompile(`(?i)Sigortalının\s*Adı\s*Soyadı\s*[:\s]*([A-ZÇĞİÖŞÜ\s.]+?)\s*(?:Sigortalının\s*Adresi|Adres|Kimlik|RİSK)`)}
)

var travelPolicy = &Descriptor{
	Type:       model.TypeTravel,
	Carrier:    model.CarrierAXA,
	Insured:    []Rule{axaInsured},
	Date:       []Rule{axaStartDate},
	CustomerNo: []Rule{axaCustomer},
	PolicyNo:   []Rule{axaPolicyNo},
	Amount: []Rule{
		// Travel premiums are quoted in euros without a currency marker on
		// the label line.
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Ödenecek\s*Prim\s*[:\s]*([\d,]+)`), Clean: func(s string) string { return s + " EUR" }},
	},
}

var premisesPolicy = &Descriptor{
	Type:       model.TypePremises,
	Carrier:    model.CarrierAXA,
	Insured:    []Rule{axaInsured},
	Date:       []Rule{axaStartDate},
	CustomerNo: []Rule{axaCustomer},
	PolicyNo:   []Rule{axaPolicyNo},
	Brand: []Rule{
		// The business line has no vehicle; the brand column carries the
		// declared field of activity instead.
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Faaliyet\s*Konusu\s*[:\s]*([A-ZÇĞİÖŞÜ\s]+?)\s*Yapı\s*Tarzı`)},
	},
}

var cargoPolicy = &Descriptor{
	Type:       model.TypeCargo,
	Carrier:    model.CarrierAXA,
	Insured:    []Rule{axaInsured},
	Date:       []Rule{axaStartDate},
	CustomerNo: []Rule{axaCustomer},
	PolicyNo:   []Rule{axaPolicyNo},
	Plate: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)(?:Kamyon|Çekici|Araç)\s*Plakası\s*[:\s]*(\d{2}\s*[A-Z]{1,4}\s*\d{2,5})`), Clean: stripSpaces},
	},
}

var homePolicy = &Descriptor{
	Type:    model.TypeHome,
	Carrier: model.CarrierAXA,
	Insured: []Rule{
		axaInsured,
		{In: InClean, Pattern: regexp.MustCompile(`Sayın\s+([A-ZÇĞİÖŞÜ\s]{3,50})`)},
	},
	Date:       []Rule{axaStartDate},
	CustomerNo: []Rule{axaCustomer},
	PolicyNo:   []Rule{axaPolicyNo},
}

var earthquakePolicy = &Descriptor{
	Type:    model.TypeEarthquake,
	Carrier: model.CarrierAXA,
	Insured: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?is)SİGORTA\s*ETTİREN\s*BİLGİLERİ.*?Adı\s*Soyadı[/:]?\s*Unvanı?\s*[:\s]*([A-ZÇĞİÖŞÜ.,\s]{3,80})\s*(?:TCKN|VKN|Cep|Sabit|E-posta)`)},
	},
	Date: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Başlangıç\s*Tarihi\s*[:\s]*(\d{2}/\d{2}/\d{4})`)},
	},
	PolicyNo: []Rule{
		// The pool certificate number differs from the issuing company's own
		// policy number; only the latter keys the record.
		{In: InClean, Pattern: regexp.MustCompile(`(?i)Sigorta\s*Şirketi\s*Poliçe\s*No\s*[:\s]*(\d+)`)},
	},
}

var healthPolicy = &Descriptor{
	Type:         model.TypeHealth,
	Carrier:      model.CarrierAXA,
	InsuredFunc:  healthInsured,
	PolicyNoFunc: healthPolicyNo,
	Date: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(?i)(?:BAŞLANGIÇ|TANZİM)\s*TARİHİ.*?(\d{2}/\d{2}/\d{4})`)},
	},
	CustomerNo: []Rule{
		{In: InClean, Pattern: regexp.MustCompile(`(\d{7,})\s+[A-ZÇĞİÖŞÜ\s]{3,40}\s+(?:KE|EŞ|ÇOCUK)`), Reject: healthAgencyCode},
	},
}

// Health certificates list members in a table: number, name, relation code.
var healthMemberRow = regexp.MustCompile(`(\d{7,})\s+([A-ZÇĞİÖŞÜ\s]{3,40})\s+(?:KE|EŞ|ÇOCUK)`)

func healthAgencyCode(m []string) bool {
	return strings.Contains(m[1], "6552")
}

var (
	healthNameLabel = regexp.MustCompile(`(?i)(?:ADI\s*SOYADI|SİGORTALI)\s*:*\s*([A-ZÇĞİÖŞÜ\s]{3,40})\s+(?:ADRES|TELEFON)`)
	healthNameNoise = []string{"ADRES", "TELEFON", "MÜŞTERİ", "ACENTE", "SİGORTA", "İSTANBUL", "TÜRKİYE", "NO:"}
)

func healthInsured(d *Document) string {
	name := ""
	for _, m := range healthMemberRow.FindAllStringSubmatch(d.Clean, -1) {
		if healthAgencyCode(m) {
			continue
		}
		name = strings.TrimSpace(m[2])
		break
	}
	if name == "" {
		if m := healthNameLabel.FindStringSubmatch(d.Clean); m != nil {
			name = strings.TrimSpace(m[1])
		}
	}
	for _, bad := range healthNameNoise {
		name = strings.ReplaceAll(name, bad, "")
	}
	return strings.TrimSpace(name)
}

var (
	healthPolicyLabel = regexp.MustCompile(`(?i)Poliçe\s*No\s*[:\-\s]*(\d{7,})`)
	longDigits        = regexp.MustCompile(`(\d{7,})`)
)

// healthPolicyNo falls back to digits in the source file name; renewal
// certificates frequently omit the number from the text layer.
func healthPolicyNo(d *Document) string {
	if m := healthPolicyLabel.FindStringSubmatch(d.Clean); m != nil {
		return m[1]
	}
	if m := longDigits.FindStringSubmatch(d.Filename); m != nil {
		return m[1]
	}
	return ""
}

// vehiclePolicy is the labelled motor layout shared by the traffic and casco
// default descriptors.
func vehiclePolicy(t model.PolicyType) *Descriptor {
	return &Descriptor{
		Type:    t,
		Carrier: model.CarrierAXA,
		Insured: []Rule{
			{
				In:      InClean,
				Pattern: regexp.MustCompile(`(?i)Sigortalının\s*Adı\s*Soyadı\s*[:\s]+([A-ZÇĞİÖŞÜ\s.\-]+?)\s*(?:Sigortalının\s*Adresi|Adres|Kimlik|Vergi)`),
				Clean:   vehicleCleanName,
			},
		},
		Date: []Rule{
			{In: InClean, Pattern: regexp.MustCompile(`(?i)Başlangıç\s*Tarihi.*?(\d{2}/\d{2}/\d{4})`)},
		},
		CustomerNo: []Rule{
			{In: InClean, Pattern: regexp.MustCompile(`(?i)Müşteri\s*No\s*[:\s]*(\d{5,15})`)},
		},
		PolicyNo: []Rule{
			// Renewal notices repeat the expiring number under an "Eski
			// Poliçe No" label; those matches are skipped.
			{
				Pattern: regexp.MustCompile(`((?:ESKİ\s+)?)POLİ[ÇC]E\s*NO\s*[:\s]*(\d{8,9})`),
				Group:   2,
				Reject:  func(m []string) bool { return m[1] != "" },
			},
		},
		Plate: []Rule{
			{In: InClean, Pattern: regexp.MustCompile(`(?i)Plaka\s*No.*?\s*(\d{2}\s*[A-Z]{1,5}\s*\d{2,5})`), Clean: stripSpaces},
		},
		Brand: []Rule{
			{
				In:      InClean,
				Pattern: regexp.MustCompile(`(?i)Marka\s*[:\s]*([A-ZÇĞİÖŞÜ\s()\-]{3,30})\s*(?:Model|Tipi|Kullanım)`),
				Clean:   vehicleCleanBrand,
			},
		},
	}
}

var punct = regexp.MustCompile(`[|:.]`)

func vehicleCleanName(s string) string {
	s = strings.TrimSpace(punct.ReplaceAllString(s, ""))
	if len([]rune(s)) < 3 {
		return ""
	}
	return s
}

var markaLabel = regexp.MustCompile(`(?i)MARKA`)

func vehicleCleanBrand(s string) string {
	s = strings.TrimSpace(markaLabel.ReplaceAllString(s, ""))
	if strings.Contains(s, "SİGORTA") {
		return ""
	}
	return s
}
