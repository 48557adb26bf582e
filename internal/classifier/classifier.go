// Package classifier assigns a (carrier, policy-type) tag to raw document
// text. The classifier is a decision list: an ordered sequence of rules
// evaluated top to bottom, first match wins. Order encodes priority and is
// part of the contract — carrier signatures in the first ~30 lines beat
// signatures buried in footers, bespoke carriers beat generic type keywords,
// and specific type keywords beat broad ones.
package classifier

import (
	"strings"

	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/text"
)

// headerLines bounds the header scope. Carrier names are printed prominently
// near the top; the same names appearing in footers must not win.
const headerLines = 30

// Document is the pre-processed view of one policy's text.
type Document struct {
	Raw       string // original text, case preserved (layout signature checks)
	RawHeader string // first headerLines lines of Raw
	Upper     string // Turkish-uppercased, previous-insurer spans scrubbed
	Header    string // first headerLines lines of Upper, joined with spaces
}

// Prepare builds the classification view of raw document text.
func Prepare(raw string) *Document {
	upper := Scrub(text.Upper(raw))

	lines := strings.Split(upper, "\n")
	if len(lines) > headerLines {
		lines = lines[:headerLines]
	}
	rawLines := strings.Split(raw, "\n")
	if len(rawLines) > headerLines {
		rawLines = rawLines[:headerLines]
	}

	return &Document{
		Raw:       raw,
		RawHeader: strings.Join(rawLines, "\n"),
		Upper:     strings.Join(strings.Fields(upper), " "),
		Header:    strings.Join(strings.Fields(strings.Join(lines, " ")), " "),
	}
}

// Classify tags raw document text. Empty or unmatchable text yields
// model.TagUnknown; classification never fails.
func Classify(raw string) model.Tag {
	if strings.TrimSpace(raw) == "" {
		return model.TagUnknown
	}
	doc := Prepare(raw)
	for _, r := range Rules {
		if tag, ok := r.Match(doc); ok {
			return tag
		}
	}
	return model.TagUnknown
}

// Rule is one entry of the decision list.
type Rule struct {
	Name  string
	Match func(d *Document) (model.Tag, bool)
}

func anyOf(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hdiTag narrows HDI to the 2026 layout when its signatures appear in the
// probed text. The signatures are checked against the original-case text: the
// revised layout prints them in mixed case and uppercasing would not
// round-trip. The header-scoped rule probes only the header lines so a deep
// boilerplate mention cannot select the revised descriptor.
func hdiTag(raw string) (model.Tag, bool) {
	tag := model.Tag{Type: model.TypeTraffic, Carrier: model.CarrierHDI}
	if strings.Contains(raw, "Başlangıç-Bitiş") || strings.Contains(raw, "Ad Soyad / Ünvan") {
		tag.Layout = model.LayoutHDI2026
	}
	return tag, true
}

func trafficTag(c model.Carrier) (model.Tag, bool) {
	return model.Tag{Type: model.TypeTraffic, Carrier: c}, true
}

// genericTag marks a document handled by the default extractor family.
func genericTag(t model.PolicyType) (model.Tag, bool) {
	return model.Tag{Type: t, Carrier: model.CarrierAXA}, true
}

const hdiPhoneSignature = "0850 222 8 434"

// Rules is the ordered decision list. Do not reorder entries: rule order is
// the precedence contract.
var Rules = []Rule{
	// Bespoke carriers, header scope.
	{"ray-header", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Header, "RAY SİGORTA") {
			return trafficTag(model.CarrierRay)
		}
		return model.TagUnknown, false
	}},
	{"hepiyi-header", func(d *Document) (model.Tag, bool) {
		if anyOf(d.Header, "HEPİYİ", "HEPIYI") {
			return trafficTag(model.CarrierHepiyi)
		}
		return model.TagUnknown, false
	}},
	{"ethica-header", func(d *Document) (model.Tag, bool) {
		if anyOf(d.Header, "ETHICA SİGORTA", "ETHİCA SİGORTA") {
			return trafficTag(model.CarrierEthica)
		}
		return model.TagUnknown, false
	}},
	{"hdi-header", func(d *Document) (model.Tag, bool) {
		if anyOf(d.Header, "HDI SİGORTA", "HDI SIGORTA", hdiPhoneSignature) {
			return hdiTag(d.RawHeader)
		}
		return model.TagUnknown, false
	}},
	{"sompo-header", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Header, "SOMPO") {
			return trafficTag(model.CarrierSompo)
		}
		return model.TagUnknown, false
	}},
	{"quick-header", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Header, "QUICK") {
			return trafficTag(model.CarrierQuick)
		}
		return model.TagUnknown, false
	}},
	{"doga-header", func(d *Document) (model.Tag, bool) {
		// The dotted/dotless İ in "SİGORTA" renders inconsistently in Doğa
		// PDFs; accept every spelling.
		if anyOf(d.Header, "DOĞA SİGORTA", "DOGA SIGORTA", "DOĞA SIGORTA", "DOGA SİGORTA") {
			return trafficTag(model.CarrierDoga)
		}
		return model.TagUnknown, false
	}},

	// Bespoke carriers, whole-document fallback. Type keywords gate the
	// carriers whose names show up in unrelated contexts.
	{"ray-full", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Upper, "RAY SİGORTA") {
			return trafficTag(model.CarrierRay)
		}
		return model.TagUnknown, false
	}},
	{"hepiyi-full", func(d *Document) (model.Tag, bool) {
		if anyOf(d.Upper, "HEPİYİ", "HEPIYI") {
			return trafficTag(model.CarrierHepiyi)
		}
		return model.TagUnknown, false
	}},
	{"ethica-full", func(d *Document) (model.Tag, bool) {
		if anyOf(d.Upper, "ETHICA SİGORTA", "ETHİCA SİGORTA") && anyOf(d.Upper, "TRAFİK", "ZORUNLU MALİ") {
			return trafficTag(model.CarrierEthica)
		}
		return model.TagUnknown, false
	}},
	{"hdi-full", func(d *Document) (model.Tag, bool) {
		if anyOf(d.Upper, "HDI SİGORTA", "HDI SIGORTA", hdiPhoneSignature) {
			return hdiTag(d.Raw)
		}
		return model.TagUnknown, false
	}},
	{"sompo-full", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Upper, "SOMPO") && anyOf(d.Upper, "TRAFİK", "KARAYOLLARI") {
			return trafficTag(model.CarrierSompo)
		}
		return model.TagUnknown, false
	}},
	{"quick-full", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Upper, "QUICK") && anyOf(d.Upper, "TRAFİK", "KARAYOLLARI") {
			return trafficTag(model.CarrierQuick)
		}
		return model.TagUnknown, false
	}},
	{"doga-full", func(d *Document) (model.Tag, bool) {
		if anyOf(d.Upper, "DOĞA SİGORTA", "DOGA SIGORTA", "DOĞA SIGORTA", "DOGA SİGORTA") &&
			anyOf(d.Upper, "TRAFİK", "KARAYOLLARI") {
			return trafficTag(model.CarrierDoga)
		}
		return model.TagUnknown, false
	}},

	// Allianz prints its name in page footers, so it must come after every
	// header-scoped carrier and is checked in the whole document.
	{"allianz", func(d *Document) (model.Tag, bool) {
		if !anyOf(d.Upper, "ALLIANZ", "ALLİANZ", "ALLIANZSIGORTA") {
			return model.TagUnknown, false
		}
		if anyOf(d.Upper, "ALLIANZ KASKO", "GENİŞLETİLMİŞ KASKO") {
			return model.Tag{Type: model.TypeCasco, Carrier: model.CarrierAllianz}, true
		}
		if anyOf(d.Upper, "TRAFİK", "ZORUNLU MALİ", "KARAYOLLARI MOTORLU") {
			return trafficTag(model.CarrierAllianz)
		}
		if strings.Contains(d.Upper, "KASKO") {
			return model.Tag{Type: model.TypeCasco, Carrier: model.CarrierAllianz}, true
		}
		return model.TagUnknown, false
	}},

	// Generic policy types, specific keywords before broad ones.
	{"premises", matchAny(model.TypePremises, "İŞYERİM", "ISYERIM")},
	{"cargo", matchAny(model.TypeCargo, "NAKLİYAT", "EMTİA")},
	{"travel", matchAny(model.TypeTravel, "SEYAHAT SİGORTASI", "SEYAHAT SAĞLIK SİGORTASI")},
	{"home-package", matchAny(model.TypeHome, "EVİM PAKET")},
	{"earthquake-mandatory", matchAny(model.TypeEarthquake, "ZORUNLU DEPREM")},
	{"health-branded", matchAny(model.TypeHealth, "SAĞLIĞIM", "TAMAMLAYICI SAĞLIK")},
	{"health", matchAny(model.TypeHealth, "SAĞLIK SİGORTASI", "SAĞLIK POLİÇESİ")},
	{"casco-labeled", matchAny(model.TypeCasco, "KASKO POLİÇESİ", "KASKO SİGORTASI")},
	{"traffic-labeled", matchAny(model.TypeTraffic, "TRAFİK SİGORTASI", "ZORUNLU MALİ")},
	{"traffic-highway", matchAny(model.TypeTraffic, "KARAYOLLARI MOTORLU")},
	// A bare "KASKO" mention occurs inside traffic policies; only classify
	// as casco when the document never says TRAFİK. Checked before the
	// KONUT+YANGIN rule: casco coverage tables list home contents and fire.
	{"casco-bare", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Upper, "KASKO") && !strings.Contains(d.Upper, "TRAFİK") {
			return genericTag(model.TypeCasco)
		}
		return model.TagUnknown, false
	}},
	{"home", func(d *Document) (model.Tag, bool) {
		if strings.Contains(d.Upper, "KONUT") && strings.Contains(d.Upper, "YANGIN") {
			return genericTag(model.TypeHome)
		}
		return model.TagUnknown, false
	}},
	{"earthquake-bare", matchAny(model.TypeEarthquake, "DASK")},
	{"traffic-bare", matchAny(model.TypeTraffic, "TRAFİK")},
	{"health-private", matchAny(model.TypeHealth, "ÖZEL SAĞLIK")},
}

func matchAny(t model.PolicyType, keywords ...string) func(*Document) (model.Tag, bool) {
	return func(d *Document) (model.Tag, bool) {
		if anyOf(d.Upper, keywords...) {
			return genericTag(t)
		}
		return model.TagUnknown, false
	}
}
