// Package extract turns classified document text into policy records. Each
// (type, carrier, layout) combination owns a Descriptor: an ordered set of
// field rules ported from the issuing company's actual PDF layout. Rules are
// tried in order and the first accepted capture wins; a field no rule matches
// is set to the placeholder, never left empty.
package extract

import (
	"regexp"
	"strings"

	"github.com/cmc-agency/policy-cli/internal/amount"
	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/text"
)

// Source selects which view of the document a rule runs against. Bespoke
// carriers print labels in unreliable case, so their rules run on the
// Turkish-uppercased view; the default-family layouts keep stable mixed-case
// labels and match the cleaned original text.
type Source int

const (
	InUpper Source = iota // cleaned, Turkish-uppercased
	InClean               // cleaned, original case
	InRaw                 // untouched, newlines preserved
)

// Rule is one attempt at locating a field.
type Rule struct {
	In      Source
	Pattern *regexp.Regexp
	Group   int                    // capture group index, 1 when zero
	Reject  func(m []string) bool  // drops a candidate match, m is the submatch slice
	Clean   func(s string) string  // post-processes the accepted capture
}

// Descriptor declares how to read one document layout. A field is resolved by
// its Func when set, otherwise by its rule list.
type Descriptor struct {
	Type    model.PolicyType
	Carrier model.Carrier
	Layout  string

	Insured     []Rule
	InsuredFunc func(d *Document) string

	Date       []Rule
	CustomerNo []Rule

	PolicyNo     []Rule
	PolicyNoFunc func(d *Document) string

	Plate []Rule

	Brand     []Rule
	BrandFunc func(d *Document) string

	Amount     []Rule
	AmountFunc func(d *Document) string
}

// Document is the parsed view of one policy's text shared by every rule.
type Document struct {
	Raw      string   // extracted text, newlines preserved
	Clean    string   // single line, whitespace collapsed
	Upper    string   // Clean folded with Turkish casing
	Lines    []string // Raw split on newlines
	Filename string   // source file base name, used by fallbacks
}

// NewDocument builds the rule views from raw extracted text.
func NewDocument(raw, filename string) *Document {
	clean := text.Clean(raw)
	return &Document{
		Raw:      raw,
		Clean:    clean,
		Upper:    text.Upper(clean),
		Lines:    strings.Split(raw, "\n"),
		Filename: filename,
	}
}

func (d *Document) view(s Source) string {
	switch s {
	case InClean:
		return d.Clean
	case InRaw:
		return d.Raw
	default:
		return d.Upper
	}
}

// apply runs rules in order and returns the first accepted capture.
func (d *Document) apply(rules []Rule) string {
	for _, r := range rules {
		group := r.Group
		if group == 0 {
			group = 1
		}
		hay := d.view(r.In)

		if r.Reject == nil {
			m := r.Pattern.FindStringSubmatch(hay)
			if m == nil || group >= len(m) {
				continue
			}
			if v := finish(m[group], r.Clean); v != "" {
				return v
			}
			continue
		}

		for _, m := range r.Pattern.FindAllStringSubmatch(hay, -1) {
			if group >= len(m) || r.Reject(m) {
				continue
			}
			if v := finish(m[group], r.Clean); v != "" {
				return v
			}
		}
	}
	return ""
}

func finish(v string, clean func(string) string) string {
	v = strings.TrimSpace(v)
	if clean != nil {
		v = strings.TrimSpace(clean(v))
	}
	return v
}

// registry maps a classification tag to its layout descriptor. Entries are
// registered by the per-carrier files at init time.
var registry = map[model.Tag]*Descriptor{}

func register(d *Descriptor) {
	registry[model.Tag{Type: d.Type, Carrier: d.Carrier, Layout: d.Layout}] = d
}

// Lookup resolves the descriptor for a tag, ignoring the layout when no
// layout-specific entry exists.
func Lookup(tag model.Tag) *Descriptor {
	if d, ok := registry[tag]; ok {
		return d
	}
	if tag.Layout != "" {
		if d, ok := registry[model.Tag{Type: tag.Type, Carrier: tag.Carrier}]; ok {
			return d
		}
	}
	return nil
}

// Extract reads a record out of doc according to the layout the tag names.
// Missing fields come back as the placeholder; a missing amount is "0". The
// second return is false when no descriptor is registered for the tag, so
// callers can count the document as unclassifiable instead of storing an
// all-placeholder record.
func Extract(doc *Document, tag model.Tag) (model.PolicyRecord, bool) {
	rec := model.PolicyRecord{
		Insured:    model.Placeholder,
		Date:       model.Placeholder,
		CustomerNo: model.Placeholder,
		PolicyNo:   model.Placeholder,
		Type:       tag.Type,
		Carrier:    tag.Carrier,
		Plate:      model.Placeholder,
		Brand:      model.Placeholder,
		Amount:     "0",
		Note:       model.Placeholder,
	}

	desc := Lookup(tag)
	if desc == nil {
		return rec, false
	}

	setField(&rec.Insured, doc, desc.Insured, desc.InsuredFunc)
	setField(&rec.Date, doc, desc.Date, nil)
	setField(&rec.CustomerNo, doc, desc.CustomerNo, nil)
	setField(&rec.PolicyNo, doc, desc.PolicyNo, desc.PolicyNoFunc)
	setField(&rec.Plate, doc, desc.Plate, nil)
	setField(&rec.Brand, doc, desc.Brand, desc.BrandFunc)

	raw := ""
	if desc.AmountFunc != nil {
		raw = desc.AmountFunc(doc)
	} else {
		raw = doc.apply(desc.Amount)
	}
	if raw == "" {
		raw = scanAmount(doc.Upper)
	}
	if raw == "" {
		raw = "0"
	}
	rec.Amount = amount.Normalize(raw)

	return rec, true
}

func setField(dst *string, doc *Document, rules []Rule, fn func(*Document) string) {
	v := ""
	if fn != nil {
		v = fn(doc)
	} else if len(rules) > 0 {
		v = doc.apply(rules)
	}
	if v != "" {
		*dst = v
	}
}
