// Package codec parses and serializes record snapshots for file import
// and API export.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"verity/internal/domain"
)

// Codec converts between byte payloads and record sets
type Codec interface {
	// Name returns the codec identifier (also its file extension)
	Name() string

	// Decode parses a payload into a record set
	Decode(data []byte) (*domain.RecordSet, error)

	// Encode serializes a record set
	Encode(set *domain.RecordSet) ([]byte, error)
}

// ForPath selects a codec from a file path's extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yaml", "yml":
		return YAML{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}
}

// ForName selects a codec by name
func ForName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return YAML{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
