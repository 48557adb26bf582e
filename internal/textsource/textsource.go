// Package textsource pulls the text layer out of policy PDFs. Two backends
// are layered: the primary reader handles well-formed documents, and a
// content-stream walker catches files whose text layer the primary reader
// cannot see. Scanned image-only documents yield empty text, which the caller
// treats as unclassifiable rather than fatal.
package textsource

import (
	"bytes"
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Source reads document text with bounded page scans.
type Source struct {
	// MaxPages caps how deep into a document the scan goes. Policy data sits
	// in the first pages; the rest is general conditions boilerplate.
	MaxPages int
	// MinTextLen is the threshold below which the primary backend's output
	// is considered a failed extraction and the fallback runs.
	MinTextLen int
}

func New(maxPages, minTextLen int) *Source {
	return &Source{MaxPages: maxPages, MinTextLen: minTextLen}
}

// Extract returns the text of up to MaxPages pages of the PDF at path.
// A document with no readable text layer returns "" and no error.
func (s *Source) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := s.readPrimary(path)
	if err != nil {
		zap.L().Debug("primary pdf backend failed", zap.String("path", path), zap.Error(err))
	}
	if len(text) >= s.MinTextLen {
		return text, nil
	}

	fallback, ferr := s.readContentStreams(path)
	if ferr != nil {
		if err != nil {
			return "", eris.Wrap(err, "textsource: read pdf")
		}
		zap.L().Debug("fallback pdf backend failed", zap.String("path", path), zap.Error(ferr))
	}
	if len(fallback) > len(text) {
		return fallback, nil
	}
	return text, nil
}

func (s *Source) readPrimary(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", eris.Wrap(err, "textsource: open pdf")
	}
	defer f.Close()

	var sb strings.Builder
	pages := r.NumPage()
	if pages > s.MaxPages {
		pages = s.MaxPages
	}
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// readContentStreams walks the raw page content streams and collects the
// arguments of the text-showing operators.
func (s *Source) readContentStreams(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrap(err, "textsource: open pdf")
	}
	defer f.Close()

	conf := pdfmodel.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", eris.Wrap(err, "textsource: parse pdf")
	}

	pages := pctx.PageCount
	if pages > s.MaxPages {
		pages = s.MaxPages
	}

	var sb strings.Builder
	for nr := 1; nr <= pages; nr++ {
		r, err := pdfcpu.ExtractPageContent(pctx, nr)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(streamText(data))
	}
	return strings.TrimSpace(sb.String()), nil
}

var pdfString = regexp.MustCompile(`\(([^)]*)\)`)

// streamText parses content stream operators for shown text. Tj and TJ show
// strings, ' shows on the next line, Td/TD/T* move the text cursor.
func streamText(data []byte) string {
	var sb strings.Builder
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfString.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfString.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}
	return tidy(sb.String())
}

// decodePDFString resolves the escape sequences of a PDF literal string.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// tidy collapses runs of spaces while keeping line structure.
func tidy(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			sb.WriteByte('\n')
			prevSpace = true
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
