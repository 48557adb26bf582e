package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/store"
)

// fakeSource serves canned text per file name.
type fakeSource struct {
	texts map[string]string
}

func (f *fakeSource) Extract(_ context.Context, path string) (string, error) {
	return f.texts[filepath.Base(path)], nil
}

func newController(t *testing.T, texts map[string]string) (*Controller, Options, *bytes.Buffer) {
	t.Helper()

	srcDir := t.TempDir()
	for name := range texts {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), []byte("%PDF-1.4"), 0o644))
	}

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "policies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	var progress bytes.Buffer
	c := &Controller{
		Source:   &fakeSource{texts: texts},
		Store:    s,
		Progress: &progress,
	}
	opts := Options{
		SourceDir: srcDir,
		ExcelPath: filepath.Join(t.TempDir(), "POLİÇELER.xlsx"),
		Agent:     "TEZER",
	}
	return c, opts, &progress
}

const axaTrafficDoc = "Trafik Sigortası\n" +
	"Sigortalının Adı Soyadı : EMRE KARTAL Sigortalının Adresi: İSTANBUL\n" +
	"Başlangıç Tarihi : 07/07/2026\n" +
	"Toplam Prim: 1.500,00 TL\n"

func TestRun_MixedBatch(t *testing.T) {
	// Two documents share insured, date and type and carry no policy number;
	// the third is unreadable. One accept, one composite reject, one
	// classification failure.
	c, opts, progress := newController(t, map[string]string{
		"a.pdf": axaTrafficDoc,
		"b.pdf": "tamamen alakasız içerik",
		"c.pdf": axaTrafficDoc,
	})

	res, err := c.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "EMRE KARTAL", res.Accepted[0].Insured)
	assert.Equal(t, "TEZER", res.Accepted[0].Note)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "c.pdf", res.Rejected[0].File)
	assert.Equal(t, model.ReasonDuplicateComposite, res.Rejected[0].Reason)

	assert.Equal(t, []string{"b.pdf"}, res.ClassificationFailures)
	assert.NotEmpty(t, res.BatchID)

	out := progress.String()
	assert.Contains(t, out, "LOG:b.pdf -> TANIMSIZ")
	assert.Contains(t, out, "LİSTEYE ALINDI")
	assert.Contains(t, out, "MEVCUT")
}

func hdiDoc(name, polNo string) string {
	return fmt.Sprintf("HDI SİGORTA A.Ş.\n"+
		"Adı Soyadı / Ünvanı : %s\n"+
		"Poliçe No : %s\n"+
		"Başlangıç Tarihi : 05/03/2026\n"+
		"Toplam Prim 4.525,50 TL\n", name, polNo)
}

func TestRun_BatchPolicyNoDuplicate(t *testing.T) {
	c, opts, _ := newController(t, map[string]string{
		"1.pdf": hdiDoc("AHMET YILMAZ", "1234567890"),
		"2.pdf": hdiDoc("AHMET YILMAZ", "1234567890"),
	})

	res, err := c.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, res.Accepted, 1)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "2.pdf", res.Rejected[0].File)
	assert.Equal(t, model.ReasonDuplicatePolicyNo, res.Rejected[0].Reason)
}

func TestRun_ArchiveDuplicateRejected(t *testing.T) {
	c, opts, _ := newController(t, map[string]string{
		"1.pdf": hdiDoc("AHMET YILMAZ", "1234567890"),
	})

	// Pre-seed the archive with the same policy number.
	_, err := c.Store.InsertRecords(context.Background(), []model.PolicyRecord{{
		Insured:  "AHMET YILMAZ",
		Date:     "01/01/2025",
		PolicyNo: "1234567890",
		Type:     model.TypeTraffic,
		Carrier:  model.CarrierHDI,
	}})
	require.NoError(t, err)

	res, err := c.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Empty(t, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.ReasonDuplicatePolicyNo, res.Rejected[0].Reason)
}

func TestRun_PersistsAcceptedRecords(t *testing.T) {
	c, opts, _ := newController(t, map[string]string{
		"1.pdf": hdiDoc("AHMET YILMAZ", "1234567890"),
	})

	res, err := c.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Accepted, 1)

	// Workbook written alongside the database rows.
	_, err = os.Stat(opts.ExcelPath)
	assert.NoError(t, err)

	stored, err := c.Store.Search(context.Background(), store.Filter{PolicyNo: "1234567890"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "TEZER", stored[0].Note)
}

func TestRun_MissingSourceDir(t *testing.T) {
	c, opts, _ := newController(t, nil)
	opts.SourceDir = filepath.Join(opts.SourceDir, "yok")

	_, err := c.Run(context.Background(), opts)
	assert.Error(t, err)
}

func TestRun_EmptyDirIsSuccess(t *testing.T) {
	c, opts, _ := newController(t, nil)

	res, err := c.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Accepted)
	assert.Empty(t, res.Rejected)

	// No accepted records: the workbook is not touched.
	_, err = os.Stat(opts.ExcelPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFallbackName_Truncates(t *testing.T) {
	got := fallbackName("çok_uzun_bir_poliçe_dosyası_adı_gerçekten_uzun.pdf")
	assert.Equal(t, 25, len([]rune(got)))
}

func TestScrubName(t *testing.T) {
	assert.Equal(t, "AHMET YILMAZ", scrubName("Sayın AHMET YILMAZ :"))
	assert.Equal(t, model.Placeholder, scrubName("Sayın :"))
}
