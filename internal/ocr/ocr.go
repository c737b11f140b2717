// Package ocr turns receipt images into plain text.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tallyup-dev/tallyup/internal/config"
)

var (
	// ErrUnavailable means the OCR backend could not be reached or refused
	// the request.
	ErrUnavailable = errors.New("ocr unavailable")
	// ErrNoText means the backend answered but recognized no text.
	ErrNoText = errors.New("ocr found no text")
)

// Extractor recognizes the text in an image.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Disabled is the Extractor used when no provider is configured.
type Disabled struct{}

func (Disabled) ExtractText(context.Context, []byte) (string, error) {
	return "", fmt.Errorf("no ocr provider configured: %w", ErrUnavailable)
}

// New builds the Extractor selected by cfg. API keys are read from the
// environment variable cfg.APIKeyEnv.
func New(ctx context.Context, cfg config.OCRConfig) (Extractor, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	switch cfg.Provider {
	case config.ProviderOCRSpace, "":
		return NewSpaceClient(cfg.Endpoint, key, cfg.Timeout), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, key, cfg.Model)
	case config.ProviderNone:
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown ocr provider %q", cfg.Provider)
}

// normalize trims each line and drops carriage returns so downstream line
// splitting sees "\n" only.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
