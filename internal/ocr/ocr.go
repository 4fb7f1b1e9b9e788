// Package ocr extracts text from PDFs and images, either through local
// executables (pdftotext, tesseract) or the Mistral OCR API.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brd-service/internal/config"
)

// Extractor extracts text content from uploaded PDF or image bytes.
type Extractor interface {
	ExtractPDF(ctx context.Context, data []byte) (string, error)
	ExtractImage(ctx context.Context, data []byte, mime string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocal(cfg.PdfToTextPath, cfg.TesseractPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
