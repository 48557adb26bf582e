package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmc-agency/policy-cli/internal/store"
)

func TestApplyFilter(t *testing.T) {
	var f store.Filter

	require.NoError(t, applyFilter(&f, "customer_no", "123456"))
	require.NoError(t, applyFilter(&f, "name", "yılmaz"))
	require.NoError(t, applyFilter(&f, "plate", "34abc123"))
	require.NoError(t, applyFilter(&f, "type", "trafik"))
	require.NoError(t, applyFilter(&f, "date_from", "01/01/2026"))

	assert.Equal(t, "123456", f.CustomerNo)
	// Values fold to Turkish upper case to match stored records.
	assert.Equal(t, "YILMAZ", f.Insured)
	assert.Equal(t, "34ABC123", f.Plate)
	assert.Equal(t, "TRAFİK", f.Type)
	assert.Equal(t, "01/01/2026", f.DateFrom)
}

func TestParseSearchArgs(t *testing.T) {
	f, db, err := parseSearchArgs([]string{"name=yılmaz", "arsiv.db"}, "varsayilan.db", 100)
	require.NoError(t, err)
	assert.Equal(t, "YILMAZ", f.Insured)
	assert.Equal(t, 100, f.Limit)
	// The bare trailing argument selects the database file.
	assert.Equal(t, "arsiv.db", db)
}

func TestParseSearchArgs_NoFilterIsError(t *testing.T) {
	_, _, err := parseSearchArgs(nil, "varsayilan.db", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arama kriteri belirtilmedi")

	// A database argument alone is not a filter either.
	_, _, err = parseSearchArgs([]string{"arsiv.db"}, "varsayilan.db", 100)
	assert.Error(t, err)
}

func TestApplyFilter_UnknownKey(t *testing.T) {
	var f store.Filter
	err := applyFilter(&f, "renk", "mavi")
	assert.Error(t, err)
}

func TestApplyFilter_KeyCaseInsensitive(t *testing.T) {
	var f store.Filter
	require.NoError(t, applyFilter(&f, "POLICY_NO", "999"))
	assert.Equal(t, "999", f.PolicyNo)
}
