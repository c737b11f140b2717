// Package smsimport reads SMS inbox exports into raw messages.
package smsimport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tallyup-dev/tallyup/internal/model"
)

// Source converts an SMS export file into RawMessages.
type Source interface {
	Parse(r io.Reader) ([]model.RawMessage, error)
	Format() string
}

// Registry holds named sources.
type Registry struct {
	sources map[string]Source
}

// FileInfo describes an export file waiting in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string // derived from the extension
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source. Panics on duplicate format.
func (r *Registry) Register(s Source) {
	key := strings.ToLower(s.Format())
	if _, ok := r.sources[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.sources[key] = s
}

// Get returns the source for format, or nil.
func (r *Registry) Get(format string) Source {
	return r.sources[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&JSONSource{})
	r.Register(&CSVSource{})
	return r
}

// Limit returns at most the first max messages. A max of zero or less
// means no limit.
func Limit(msgs []model.RawMessage, max int) []model.RawMessage {
	if max <= 0 || len(msgs) <= max {
		return msgs
	}
	return msgs[:max]
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns .json and .csv exports in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format := FormatFromName(e.Name())
		if format == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: format,
		})
	}
	return files, nil
}

// FormatFromName maps a file extension to a source format, or "".
func FormatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	}
	return ""
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// ReadFile parses path with the registered source for format.
func (r *Registry) ReadFile(path, format string) ([]model.RawMessage, error) {
	src := r.Get(format)
	if src == nil {
		return nil, fmt.Errorf("unknown sms format %q", format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	msgs, err := src.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return msgs, nil
}
