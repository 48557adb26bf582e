package model

// Placeholder marks a field the extractor could not locate. Records never
// carry empty or null fields; absence is always explicit.
const Placeholder = "-"

// Carrier identifies the insurance company that issued a document.
type Carrier string

const (
	CarrierAXA     Carrier = "AXA"
	CarrierRay     Carrier = "RAY"
	CarrierHepiyi  Carrier = "HEPİYİ"
	CarrierEthica  Carrier = "ETHİCA"
	CarrierHDI     Carrier = "HDI"
	CarrierSompo   Carrier = "SOMPO"
	CarrierQuick   Carrier = "QUICK"
	CarrierDoga    Carrier = "DOĞA"
	CarrierAllianz Carrier = "ALLIANZ"
)

// PolicyType is the insurance product category.
type PolicyType string

const (
	TypeTraffic    PolicyType = "TRAFİK"
	TypeCasco      PolicyType = "KASKO"
	TypeTravel     PolicyType = "SEYAHAT"
	TypePremises   PolicyType = "İŞYERİ"
	TypeCargo      PolicyType = "NAKLİYAT"
	TypeHome       PolicyType = "EVİM"
	TypeHealth     PolicyType = "SAĞLIK"
	TypeEarthquake PolicyType = "DASK"
)

// LayoutHDI2026 marks the revised HDI traffic policy layout introduced in
// 2026 ("Başlangıç-Bitiş Tarihi" header style).
const LayoutHDI2026 = "2026"

// Tag is the classification assigned to a document: a (type, carrier) pair,
// optionally narrowed to a layout variant. The zero value means UNKNOWN.
// Tags are recomputed from text on every run and never persisted.
type Tag struct {
	Type    PolicyType `json:"type"`
	Carrier Carrier    `json:"carrier"`
	Layout  string     `json:"layout,omitempty"`
}

// TagUnknown is returned when no classification rule matches.
var TagUnknown = Tag{}

// IsUnknown reports whether the tag carries no classification.
func (t Tag) IsUnknown() bool {
	return t.Type == "" && t.Carrier == ""
}

func (t Tag) String() string {
	if t.IsUnknown() {
		return "UNKNOWN"
	}
	s := string(t.Type) + "/" + string(t.Carrier)
	if t.Layout != "" {
		s += "@" + t.Layout
	}
	return s
}

// PolicyRecord is the canonical extracted entity. Every field is populated:
// either a real value or Placeholder, never empty.
type PolicyRecord struct {
	Insured    string     `json:"insured"`
	Date       string     `json:"date"` // dd/mm/yyyy
	CustomerNo string     `json:"customer_no"`
	PolicyNo   string     `json:"policy_no"`
	Type       PolicyType `json:"type"`
	Carrier    Carrier    `json:"carrier"`
	Plate      string     `json:"plate"`
	Brand      string     `json:"brand"`
	Amount     string     `json:"amount"` // canonical locale string, e.g. 1.234,56
	Note       string     `json:"note"`   // agent label supplied at batch time
}

// HasPolicyNo reports whether the record carries a usable primary key.
func (r *PolicyRecord) HasPolicyNo() bool {
	return r.PolicyNo != "" && r.PolicyNo != Placeholder
}

// CompositeKey joins insured name, transaction date and policy type into the
// fallback dedup key used when the policy number is absent or repeated.
func (r *PolicyRecord) CompositeKey() string {
	return r.Insured + "_" + r.Date + "_" + string(r.Type)
}

// RecordKeys is the dedup-relevant projection of a stored record.
type RecordKeys struct {
	PolicyNo  string
	Insured   string
	Date      string
	Type      string
}

// Rejection explains why a document produced no new record.
type Rejection struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Rejection reasons. Duplicates are normal outcomes, not errors.
const (
	ReasonDuplicatePolicyNo  = "duplicate-policy-number"
	ReasonDuplicateComposite = "duplicate-composite-key"
)

// BatchResult is the whole outcome of one ingestion run. Partial success is
// the steady state: some accepted, some rejected, some unclassifiable.
type BatchResult struct {
	BatchID                string         `json:"batch_id"`
	Accepted               []PolicyRecord `json:"accepted"`
	Rejected               []Rejection    `json:"rejected"`
	ClassificationFailures []string       `json:"classification_failures"`
}

// CommissionBreakdown is derived from a record plus an agent identity. All
// monetary values are rounded to 2 decimal places at computation time.
type CommissionBreakdown struct {
	NetPremium       float64 `json:"net_premium"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	PayoutRate       float64 `json:"payout_rate"`
	PayoutAmount     float64 `json:"payout_amount"`
}
