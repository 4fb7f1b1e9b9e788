package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Local extracts text using the pdftotext and tesseract CLI tools.
type Local struct {
	pdfToTextPath string
	tesseractPath string
}

// NewLocal creates a Local extractor. Empty paths fall back to the bare
// binary names resolved via PATH.
func NewLocal(pdfToTextPath, tesseractPath string) *Local {
	if pdfToTextPath == "" {
		pdfToTextPath = "pdftotext"
	}
	if tesseractPath == "" {
		tesseractPath = "tesseract"
	}
	return &Local{pdfToTextPath: pdfToTextPath, tesseractPath: tesseractPath}
}

// ExtractPDF runs pdftotext -layout over the uploaded bytes and returns stdout.
func (l *Local) ExtractPDF(ctx context.Context, data []byte) (string, error) {
	path, cleanup, err := writeTemp(data, "upload-*.pdf")
	if err != nil {
		return "", err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, l.pdfToTextPath, "-layout", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed: %s", stderr.String())
	}

	return stdout.String(), nil
}

// ExtractImage runs tesseract over the uploaded bytes and returns stdout.
// The mime argument is unused for the local engine; tesseract sniffs the
// image format itself.
func (l *Local) ExtractImage(ctx context.Context, data []byte, mime string) (string, error) {
	path, cleanup, err := writeTemp(data, "upload-*.img")
	if err != nil {
		return "", err
	}
	defer cleanup()

	// "stdout" as the output base makes tesseract print recognized text.
	cmd := exec.CommandContext(ctx, l.tesseractPath, path, "stdout")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: tesseract failed: %s", stderr.String())
	}

	return stdout.String(), nil
}

// writeTemp persists request bytes to a temp file for tools that only read
// from paths. The returned cleanup removes the file.
func writeTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, eris.Wrap(err, "ocr: create temp file")
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, eris.Wrapf(err, "ocr: write temp file %s", filepath.Base(path))
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, eris.Wrap(err, "ocr: close temp file")
	}
	return path, func() { os.Remove(path) }, nil
}
