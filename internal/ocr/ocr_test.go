package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brd-service/internal/config"
)

func TestNewExtractor_Local(t *testing.T) {
	ext, err := NewExtractor(config.OCRConfig{Provider: "local", PdfToTextPath: "/usr/bin/pdftotext"})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, ext)
}

func TestNewExtractor_LocalDefault(t *testing.T) {
	ext, err := NewExtractor(config.OCRConfig{Provider: ""})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, ext)
}

func TestNewExtractor_MistralMissingKey(t *testing.T) {
	_, err := NewExtractor(config.OCRConfig{Provider: "mistral"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral provider requires mistral_api_key")
}

func TestNewExtractor_MistralWithKey(t *testing.T) {
	ext, err := NewExtractor(config.OCRConfig{Provider: "mistral", MistralKey: "test-key"})
	require.NoError(t, err)
	assert.IsType(t, &MistralOCR{}, ext)
}

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := NewExtractor(config.OCRConfig{Provider: "unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "unknown"`)
}

func TestLocal_BinPaths(t *testing.T) {
	l := NewLocal("", "")
	assert.Equal(t, "pdftotext", l.pdfToTextPath)
	assert.Equal(t, "tesseract", l.tesseractPath)

	l = NewLocal("/custom/pdftotext", "/custom/tesseract")
	assert.Equal(t, "/custom/pdftotext", l.pdfToTextPath)
	assert.Equal(t, "/custom/tesseract", l.tesseractPath)
}

func TestLocal_MissingBinary(t *testing.T) {
	l := NewLocal("/nonexistent/pdftotext", "/nonexistent/tesseract")

	_, err := l.ExtractPDF(context.Background(), []byte("%PDF-1.4"))
	assert.Error(t, err)

	_, err = l.ExtractImage(context.Background(), []byte("img"), "image/png")
	assert.Error(t, err)
}

func TestMistralOCR_DefaultModel(t *testing.T) {
	m := NewMistralOCR("key", "")
	assert.Equal(t, defaultMistralModel, m.model)
	assert.Equal(t, mistralOCREndpoint, m.endpoint)
}

func TestMistralOCR_ExtractPDF(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req mistralOCRRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "document_url", req.Document.Type)
		assert.True(t, strings.HasPrefix(req.Document.DocumentURL, "data:application/pdf;base64,"))

		encoded := strings.TrimPrefix(req.Document.DocumentURL, "data:application/pdf;base64,")
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, pdfBytes, decoded)

		json.NewEncoder(w).Encode(mistralOCRResponse{Pages: []mistralOCRPage{
			{Index: 0, Markdown: "page one"},
			{Index: 1, Markdown: "page two"},
		}})
	}))
	defer srv.Close()

	m := NewMistralOCR("test-key", "")
	m.endpoint = srv.URL

	text, err := m.ExtractPDF(context.Background(), pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two", text)
}

func TestMistralOCR_ExtractImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req mistralOCRRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "image_url", req.Document.Type)
		assert.True(t, strings.HasPrefix(req.Document.ImageURL, "data:image/jpeg;base64,"))

		json.NewEncoder(w).Encode(mistralOCRResponse{Pages: []mistralOCRPage{
			{Index: 0, Markdown: "whiteboard notes"},
		}})
	}))
	defer srv.Close()

	m := NewMistralOCR("test-key", "")
	m.endpoint = srv.URL

	text, err := m.ExtractImage(context.Background(), []byte("jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "whiteboard notes", text)
}

func TestMistralOCR_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewMistralOCR("bad-key", "")
	m.endpoint = srv.URL

	_, err := m.ExtractPDF(context.Background(), []byte("pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
