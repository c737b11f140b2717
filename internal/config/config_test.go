package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyup-dev/tallyup/internal/extract"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("u-1")
	cfg.Extraction.WindowLines = 3
	cfg.OCR.Provider = ProviderGemini
	cfg.OCR.Model = "gemini-2.5-flash"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("u-1")

	assert.Equal(t, "u-1", cfg.User.ID)
	assert.Equal(t, "LKR", cfg.User.Currency)
	assert.Equal(t, 2, cfg.Extraction.WindowLines)
	assert.Equal(t, "10000000", cfg.Extraction.MaxPlausibleAmount)
	assert.Equal(t, 200, cfg.Extraction.NoteMaxLen)
	assert.Equal(t, "tallyup.db", cfg.Store.Path)
	assert.Equal(t, ProviderOCRSpace, cfg.OCR.Provider)
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestExtractOptions(t *testing.T) {
	cfg := Default("u-1")
	def, got := extract.DefaultOptions(), cfg.ExtractOptions()
	assert.Equal(t, def.WindowLines, got.WindowLines)
	assert.Equal(t, def.TitleScanLines, got.TitleScanLines)
	assert.Equal(t, def.TitleMaxLen, got.TitleMaxLen)
	assert.True(t, def.MaxPlausibleAmount.Equal(got.MaxPlausibleAmount))

	cfg.Extraction.MaxPlausibleAmount = "500000"
	cfg.Extraction.WindowLines = 0
	opts := extract.New(cfg.ExtractOptions()).Options()
	assert.Equal(t, "500000", opts.MaxPlausibleAmount.String())
	assert.Equal(t, 2, opts.WindowLines)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing user", func(c *Config) { c.User.ID = "" }},
		{"negative window", func(c *Config) { c.Extraction.WindowLines = -1 }},
		{"zero bound", func(c *Config) { c.Extraction.MaxPlausibleAmount = "0" }},
		{"bad bound", func(c *Config) { c.Extraction.MaxPlausibleAmount = "lots" }},
		{"unknown provider", func(c *Config) { c.OCR.Provider = "tesseract" }},
		{"negative workers", func(c *Config) { c.Import.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("u-1")
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("user:\n  id: u\nocr:\n  provider: carrier-pigeon\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("u-1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "id: u-1")
	assert.Contains(t, contents, "window_lines: 2")
	assert.Contains(t, contents, "provider: ocrspace")
	assert.Contains(t, contents, "timeout: 30s")
}
