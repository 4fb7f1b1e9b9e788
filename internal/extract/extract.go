// Package extract converts uploaded files into raw communication text,
// dispatching on the filename extension.
package extract

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brd-service/internal/model"
	"github.com/sells-group/brd-service/internal/ocr"
)

// imageMIMEs maps supported image extensions to their MIME type for
// OCR providers that need one.
var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Extractor turns an uploaded file into text.
type Extractor struct {
	ocr ocr.Extractor
}

// New creates an Extractor using the given OCR engine for PDFs and images.
func New(ocrEngine ocr.Extractor) *Extractor {
	return &Extractor{ocr: ocrEngine}
}

// Supported reports whether the filename has a handled extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".pdf", ".docx", ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// Extract converts file bytes to text based on the filename extension.
// Returns a classified RequestError: UnsupportedFileType for unknown
// extensions, FileReadError when decoding fails, EmptyContent when the
// result is whitespace-only.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error
	switch ext {
	case ".txt":
		text, err = extractPlainText(data)
	case ".pdf":
		text, err = e.ocr.ExtractPDF(ctx, data)
	case ".docx":
		text, err = extractDocx(data)
	case ".png", ".jpg", ".jpeg":
		text, err = e.ocr.ExtractImage(ctx, data, imageMIMEs[ext])
	default:
		return "", model.NewRequestError(model.KindUnsupportedFileType,
			eris.Errorf("extract: unsupported file type %q", ext))
	}

	if err != nil {
		return "", model.NewRequestError(model.KindFileReadError,
			eris.Wrapf(err, "extract: read %s", ext))
	}

	if strings.TrimSpace(text) == "" {
		return "", model.NewRequestError(model.KindEmptyContent,
			eris.Errorf("extract: no text content in %s file", ext))
	}

	return text, nil
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", eris.New("extract: file is not valid UTF-8")
	}
	return string(data), nil
}
