package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a fresh temp dir so Load never picks up a developer's
// local config.yaml.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(5*1024*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "anthropic", cfg.Pipeline.Backend)
	assert.Equal(t, 8000, cfg.Pipeline.MaxChars)
	assert.Equal(t, 30, cfg.Pipeline.GenerateTimeoutSecs)
	assert.Equal(t, "local", cfg.OCR.Provider)
	assert.Equal(t, "pdftotext", cfg.OCR.PdfToTextPath)
	assert.Equal(t, "tesseract", cfg.OCR.TesseractPath)
	assert.False(t, cfg.Classifier.Enabled)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdir(t)

	yaml := `
server:
  port: 9090
pipeline:
  backend: openai
  max_chars: 4000
classifier:
  enabled: true
  model_path: /models/email.json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Pipeline.Backend)
	assert.Equal(t, 4000, cfg.Pipeline.MaxChars)
	assert.True(t, cfg.Classifier.Enabled)
	assert.Equal(t, "/models/email.json", cfg.Classifier.ModelPath)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, cfg.Pipeline.GenerateTimeoutSecs)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t)
	t.Setenv("BRD_LOG_LEVEL", "warn")
	t.Setenv("BRD_PIPELINE_GENERATE_TIMEOUT_SECS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Pipeline.GenerateTimeoutSecs)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [broken"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	assert.Error(t, err)
}
