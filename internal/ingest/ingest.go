// Package ingest drives a batch run: read each PDF once, classify, extract,
// deduplicate against the archive and the batch itself, then persist the
// accepted records. Processing order is the directory listing order and is
// part of the dedup contract: the first occurrence of a key wins.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cmc-agency/policy-cli/internal/classifier"
	"github.com/cmc-agency/policy-cli/internal/export"
	"github.com/cmc-agency/policy-cli/internal/extract"
	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/store"
)

// TextSource yields the text layer of a document.
type TextSource interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Controller runs ingestion batches.
type Controller struct {
	Source TextSource
	Store  *store.SQLiteStore
	// Progress receives the human-readable "LOG:" lines interleaved with the
	// run. The final JSON result goes elsewhere; these lines are for the
	// operator watching the batch.
	Progress io.Writer
}

// Options parameterizes one batch run.
type Options struct {
	SourceDir string
	ExcelPath string
	Agent     string
}

// maxFallbackName bounds the insured-name-from-filename fallback.
const maxFallbackName = 25

// Run processes every PDF under opts.SourceDir. Per-document failures are
// recorded in the result; only environment failures return an error.
func (c *Controller) Run(ctx context.Context, opts Options) (*model.BatchResult, error) {
	if _, err := os.Stat(opts.SourceDir); err != nil {
		return nil, eris.Wrap(err, "ingest: source directory")
	}

	keys, err := c.Store.LoadKeys(ctx)
	if err != nil {
		return nil, err
	}
	seenPolicy := map[string]struct{}{}
	seenComposite := map[string]struct{}{}
	for _, k := range keys {
		if k.PolicyNo != "" && k.PolicyNo != model.Placeholder {
			seenPolicy[k.PolicyNo] = struct{}{}
		}
		seenComposite[k.Insured+"_"+k.Date+"_"+k.Type] = struct{}{}
	}

	entries, err := os.ReadDir(opts.SourceDir)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read source directory")
	}

	result := &model.BatchResult{
		BatchID:  uuid.New().String(),
		Accepted: []model.PolicyRecord{},
		Rejected: []model.Rejection{},
	}
	log := zap.L().With(zap.String("batch_id", result.BatchID))

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		path := filepath.Join(opts.SourceDir, name)

		raw, err := c.Source.Extract(ctx, path)
		if err != nil {
			log.Warn("document read failed", zap.String("file", name), zap.Error(err))
			c.progress("LOG:%s -> HATA: %s", name, eris.Cause(err))
			result.ClassificationFailures = append(result.ClassificationFailures, name)
			continue
		}

		tag := classifier.Classify(raw)
		if tag.IsUnknown() {
			log.Info("document not classified", zap.String("file", name))
			c.progress("LOG:%s -> TANIMSIZ", name)
			result.ClassificationFailures = append(result.ClassificationFailures, name)
			continue
		}

		rec, ok := extract.Extract(extract.NewDocument(raw, name), tag)
		if !ok {
			log.Warn("no layout descriptor for tag", zap.String("file", name), zap.Stringer("tag", tag))
			c.progress("LOG:%s -> TANIMSIZ", name)
			result.ClassificationFailures = append(result.ClassificationFailures, name)
			continue
		}
		rec.Note = opts.Agent
		if rec.Insured == model.Placeholder {
			rec.Insured = fallbackName(name)
		}
		rec.Insured = scrubName(rec.Insured)

		if rec.HasPolicyNo() {
			if _, dup := seenPolicy[rec.PolicyNo]; dup {
				c.progress("LOG:%s - %s -> MEVCUT (POLİÇE NO: %s)", rec.Insured, rec.Type, rec.PolicyNo)
				result.Rejected = append(result.Rejected, model.Rejection{File: name, Reason: model.ReasonDuplicatePolicyNo})
				continue
			}
		}
		composite := rec.CompositeKey()
		if _, dup := seenComposite[composite]; dup {
			c.progress("LOG:%s - %s -> MEVCUT (İçerik)", rec.Insured, rec.Type)
			result.Rejected = append(result.Rejected, model.Rejection{File: name, Reason: model.ReasonDuplicateComposite})
			continue
		}

		if rec.HasPolicyNo() {
			seenPolicy[rec.PolicyNo] = struct{}{}
		}
		seenComposite[composite] = struct{}{}
		result.Accepted = append(result.Accepted, rec)
		c.progress("LOG:%s - %s (%s) -> LİSTEYE ALINDI", rec.Insured, rec.Type, rec.Amount)
	}

	if len(result.Accepted) > 0 {
		if _, err := export.Merge(opts.ExcelPath, result.Accepted); err != nil {
			return nil, err
		}
		inserted, err := c.Store.InsertRecords(ctx, result.Accepted)
		if err != nil {
			return nil, err
		}
		log.Info("batch stored",
			zap.Int("accepted", len(result.Accepted)),
			zap.Int("inserted", inserted),
			zap.Int("rejected", len(result.Rejected)),
			zap.Int("unclassified", len(result.ClassificationFailures)),
		)
	}

	return result, nil
}

func (c *Controller) progress(format string, args ...any) {
	if c.Progress == nil {
		return
	}
	fmt.Fprintf(c.Progress, format+"\n", args...)
}

// fallbackName derives an insured label from the file name when extraction
// found none, so the record stays identifiable in reports.
func fallbackName(file string) string {
	name := strings.TrimSuffix(file, filepath.Ext(file))
	if r := []rune(name); len(r) > maxFallbackName {
		name = string(r[:maxFallbackName])
	}
	return name
}

// nameNoise are label fragments that bleed into insured-name captures on
// layouts where the label and value share a table cell.
var nameNoise = func() []*regexp.Regexp {
	words := []string{"Sigortalının", "Adı", "Soyadı", "Adresi", ":", "Müşteri", "Unvanı", "NO", "ACENTE", "Sigc", "Sayın"}
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		res = append(res, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(w)))
	}
	return res
}()

func scrubName(name string) string {
	for _, re := range nameNoise {
		name = re.ReplaceAllString(name, "")
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return model.Placeholder
	}
	return name
}
