package textsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_MissingFile(t *testing.T) {
	s := New(5, 50)
	_, err := s.Extract(context.Background(), "/nonexistent/file.pdf")
	assert.Error(t, err)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(5, 50)
	_, err := s.Extract(ctx, "whatever.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamText_Operators(t *testing.T) {
	data := []byte("BT\n(Poli) Tj\n(çe No: 123) Tj\n0 -12 Td\n[(Tutar) -100 (1.234,56 TL)] TJ\nT*\n(Sayfa sonu) '\nET")
	got := streamText(data)

	assert.Contains(t, got, "Poliçe No: 123")
	assert.Contains(t, got, "Tutar1.234,56 TL")
	assert.Contains(t, got, "Sayfa sonu")
}

func TestDecodePDFString_Escapes(t *testing.T) {
	assert.Equal(t, "a(b)c", decodePDFString([]byte(`a\(b\)c`)))
	assert.Equal(t, " x", decodePDFString([]byte(`\040x`)))
	assert.Equal(t, "line\nnext", decodePDFString([]byte(`line\nnext`)))
}

func TestTidy_CollapsesSpaces(t *testing.T) {
	assert.Equal(t, "a b\nc", tidy("a    b\n  c  "))
}
