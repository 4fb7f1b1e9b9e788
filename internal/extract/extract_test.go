package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brd-service/internal/model"
)

// stubOCR returns canned text for both PDF and image extraction.
type stubOCR struct {
	text  string
	err   error
	calls int
}

func (s *stubOCR) ExtractPDF(ctx context.Context, data []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubOCR) ExtractImage(ctx context.Context, data []byte, mime string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.txt", "b.PDF", "c.docx", "d.png", "e.jpg", "f.JPEG"} {
		assert.True(t, Supported(name), name)
	}
	for _, name := range []string{"a.exe", "b.csv", "noext", "c.doc"} {
		assert.False(t, Supported(name), name)
	}
}

func TestExtractPlainText(t *testing.T) {
	e := New(&stubOCR{})

	text, err := e.Extract(context.Background(), "notes.txt", []byte("Move the deadline to March."))
	require.NoError(t, err)
	assert.Equal(t, "Move the deadline to March.", text)
}

func TestExtractPlainTextInvalidUTF8(t *testing.T) {
	e := New(&stubOCR{})

	_, err := e.Extract(context.Background(), "notes.txt", []byte{0xff, 0xfe, 0x41})
	require.Error(t, err)
	assert.Equal(t, model.KindFileReadError, model.KindOf(err))
}

func TestExtractUnsupportedType(t *testing.T) {
	e := New(&stubOCR{})

	_, err := e.Extract(context.Background(), "report.xlsx", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, model.KindUnsupportedFileType, model.KindOf(err))
}

func TestExtractCaseInsensitiveExtension(t *testing.T) {
	e := New(&stubOCR{text: "scanned text"})

	text, err := e.Extract(context.Background(), "SCAN.PNG", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "scanned text", text)
}

func TestExtractEmptyContent(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		ocr      *stubOCR
	}{
		{"empty txt", "empty.txt", []byte("   \n\t  "), &stubOCR{}},
		{"blank pdf", "scan.pdf", []byte("pdf"), &stubOCR{text: "  \n "}},
		{"blank image", "scan.png", []byte("img"), &stubOCR{text: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.ocr)
			_, err := e.Extract(context.Background(), tt.filename, tt.data)
			require.Error(t, err)
			assert.Equal(t, model.KindEmptyContent, model.KindOf(err))
		})
	}
}

func TestExtractOCRFailure(t *testing.T) {
	e := New(&stubOCR{err: assert.AnError})

	_, err := e.Extract(context.Background(), "scan.pdf", []byte("pdf"))
	require.Error(t, err)
	assert.Equal(t, model.KindFileReadError, model.KindOf(err))
}
