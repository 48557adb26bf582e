package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_USConvention(t *testing.T) {
	assert.Equal(t, "19.320,11", Normalize("19,320.11"))
	assert.Equal(t, "1.234,56", Normalize("1,234.56"))
	assert.Equal(t, "6.865,44", Normalize("6,865.44"))
}

func TestNormalize_TurkishConvention(t *testing.T) {
	assert.Equal(t, "1.234,56", Normalize("1.234,56"))
	assert.Equal(t, "12.345.678,90", Normalize("12345.678,90"))
}

func TestNormalize_SingleDot(t *testing.T) {
	// Fraction of at most 2 digits reads as a US decimal.
	assert.Equal(t, "1.234,56", Normalize("1234.56"))
	assert.Equal(t, "750,5", Normalize("750.5"))
	// Longer fraction reads as a Turkish thousands separator.
	assert.Equal(t, "1.234", Normalize("1.234"))
}

func TestNormalize_SingleComma(t *testing.T) {
	assert.Equal(t, "1.234,56", Normalize("1234,56"))
	assert.Equal(t, "75,00", Normalize("75,00"))
}

func TestNormalize_PassThrough(t *testing.T) {
	assert.Equal(t, "0", Normalize("0"))
	assert.Equal(t, "-", Normalize("-"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "1234", Normalize("1234"))
}

func TestNormalize_CurrencySuffix(t *testing.T) {
	assert.Equal(t, "1.250,00 EUR", Normalize("1,250.00 EUR"))
	assert.Equal(t, "85,00 EUR", Normalize("85,00 EUR"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"1,234.56", "1.234,56", "1234.56", "1234,56", "19,320.11", "85,00 EUR", "0", "-"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestToNumber_RoundTrip(t *testing.T) {
	assert.InDelta(t, 1234.56, ToNumber(Normalize("1.234,56")), 0.001)
	assert.InDelta(t, 1234.56, ToNumber(Normalize("1,234.56")), 0.001)
}

func TestToNumber_Absent(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber("-"))
	assert.Equal(t, 0.0, ToNumber(""))
	assert.Equal(t, 0.0, ToNumber("0"))
}

func TestToNumber_Currency(t *testing.T) {
	assert.InDelta(t, 85.0, ToNumber("85,00 EUR"), 0.001)
}
