package pasty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pasty is a single user-authored snippet. Content may contain bracket
// pseudo-tags such as [b]...[/b].
type Pasty struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Format is the encoding of a data file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for data files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported pasty data format")

// Source supplies pasties in a stable order.
type Source interface {
	List(ctx context.Context) ([]Pasty, error)
}

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode reads a list of pasties encoded as format from r.
func Decode(r io.Reader, format Format) ([]Pasty, error) {
	var pasties []Pasty
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&pasties); err != nil {
			return nil, fmt.Errorf("failed to decode json pasties: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&pasties); err != nil {
			if errors.Is(err, io.EOF) {
				return []Pasty{}, nil
			}
			return nil, fmt.Errorf("failed to decode yaml pasties: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if pasties == nil {
		pasties = []Pasty{}
	}
	return pasties, nil
}

// LoadFile reads the data file at path, choosing the decoder by extension.
func LoadFile(path string) ([]Pasty, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pasty file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)
	return Decode(file, format)
}

// FileSource reads pasties from a data file on every List call.
type FileSource struct {
	Path string
}

// List implements Source.
func (s FileSource) List(_ context.Context) ([]Pasty, error) {
	return LoadFile(s.Path)
}
