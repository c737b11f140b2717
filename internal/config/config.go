package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tallyup-dev/tallyup/internal/extract"
)

// FileName is the config file at the root of a data directory.
const FileName = "tallyup.yaml"

// OCR providers.
const (
	ProviderOCRSpace = "ocrspace"
	ProviderGemini   = "gemini"
	ProviderNone     = "none"
)

// Config represents the top-level tallyup.yaml configuration.
type Config struct {
	User       UserConfig       `yaml:"user"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Store      StoreConfig      `yaml:"store"`
	OCR        OCRConfig        `yaml:"ocr"`
	Import     ImportConfig     `yaml:"import"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// UserConfig identifies whose transactions the data directory holds.
type UserConfig struct {
	ID       string `yaml:"id"`
	Currency string `yaml:"currency"`
}

// ExtractionConfig tunes the receipt and SMS heuristics.
type ExtractionConfig struct {
	WindowLines        int    `yaml:"window_lines"`
	MaxPlausibleAmount string `yaml:"max_plausible_amount"`
	TitleScanLines     int    `yaml:"title_scan_lines"`
	TitleMaxLen        int    `yaml:"title_max_len"`
	NoteMaxLen         int    `yaml:"note_max_len"`
}

// StoreConfig locates the transaction database.
type StoreConfig struct {
	Path string `yaml:"path"` // relative to the data directory
}

// OCRConfig selects the text recognition backend for receipt images.
type OCRConfig struct {
	Provider  string        `yaml:"provider"`
	Endpoint  string        `yaml:"endpoint,omitempty"`
	APIKeyEnv string        `yaml:"api_key_env,omitempty"`
	Model     string        `yaml:"model,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ImportConfig controls SMS batch imports.
type ImportConfig struct {
	Workers     int `yaml:"workers"`
	MaxMessages int `yaml:"max_messages"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a tallyup.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(userID string) *Config {
	opts := extract.DefaultOptions()
	return &Config{
		User: UserConfig{
			ID:       userID,
			Currency: "LKR",
		},
		Extraction: ExtractionConfig{
			WindowLines:        opts.WindowLines,
			MaxPlausibleAmount: opts.MaxPlausibleAmount.String(),
			TitleScanLines:     opts.TitleScanLines,
			TitleMaxLen:        opts.TitleMaxLen,
			NoteMaxLen:         200,
		},
		Store: StoreConfig{
			Path: "tallyup.db",
		},
		OCR: OCRConfig{
			Provider:  ProviderOCRSpace,
			Endpoint:  "https://api.ocr.space/parse/image",
			APIKeyEnv: "OCR_SPACE_API_KEY",
			Timeout:   30 * time.Second,
		},
		Import: ImportConfig{
			Workers:     4,
			MaxMessages: 500,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the values that Load cannot default.
func (c *Config) Validate() error {
	if c.User.ID == "" {
		return fmt.Errorf("user.id is required")
	}
	e := c.Extraction
	if e.WindowLines < 0 || e.TitleScanLines < 0 || e.TitleMaxLen < 0 || e.NoteMaxLen < 0 {
		return fmt.Errorf("extraction limits must not be negative")
	}
	if e.MaxPlausibleAmount != "" {
		d, err := decimal.NewFromString(e.MaxPlausibleAmount)
		if err != nil {
			return fmt.Errorf("extraction.max_plausible_amount: %w", err)
		}
		if !d.IsPositive() {
			return fmt.Errorf("extraction.max_plausible_amount must be positive")
		}
	}
	switch c.OCR.Provider {
	case "", ProviderOCRSpace, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("unknown ocr.provider %q", c.OCR.Provider)
	}
	if c.Import.Workers < 0 || c.Import.MaxMessages < 0 {
		return fmt.Errorf("import limits must not be negative")
	}
	return nil
}

// ExtractOptions maps the extraction section onto extract.Options. Unset
// fields keep their defaults.
func (c *Config) ExtractOptions() extract.Options {
	opts := extract.Options{
		WindowLines:    c.Extraction.WindowLines,
		TitleScanLines: c.Extraction.TitleScanLines,
		TitleMaxLen:    c.Extraction.TitleMaxLen,
	}
	if d, err := decimal.NewFromString(c.Extraction.MaxPlausibleAmount); err == nil {
		opts.MaxPlausibleAmount = d
	}
	return opts
}
