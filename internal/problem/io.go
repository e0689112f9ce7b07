package problem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maastrichtu-biss/informed-search/internal/spatial"
)

// MaxDocumentSize is the largest document Load accepts (1MB)
const MaxDocumentSize = 1024 * 1024

// Format is a document encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Parse decodes and validates a document
func Parse(data []byte, format Format) (*Document, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &doc, nil
}

// LoadOption adjusts a loaded document before it is validated
type LoadOption func(*Document)

// WithStart overrides the document start. Empty keeps the document value.
func WithStart(start string) LoadOption {
	return func(d *Document) {
		if start != "" {
			d.Start = start
		}
	}
}

// WithGoal overrides the document goal. Empty keeps the document value.
func WithGoal(goal string) LoadOption {
	return func(d *Document) {
		if goal != "" {
			d.Goal = goal
		}
	}
}

// Load reads a document from disk. A coordinatesFile is resolved relative to
// the document and merged under the inline coordinates. Options are applied
// before validation.
func Load(path string, opts ...LoadOption) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}

	doc, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, opt := range opts {
		opt(doc)
	}

	if doc.CoordinatesFile != "" {
		if err := doc.mergeCoordinatesFile(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (d *Document) mergeCoordinatesFile(dir string) error {
	file := d.CoordinatesFile
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}

	data, err := readLimited(file)
	if err != nil {
		return err
	}
	coords, err := spatial.LoadGeoJSONNodes(data)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if d.Coordinates == nil {
		d.Coordinates = make(map[string][]float64, len(coords))
	}
	for id, p := range coords {
		if _, inline := d.Coordinates[id]; !inline {
			d.Coordinates[id] = []float64{p.X(), p.Y()}
		}
	}
	return nil
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if info.Size() > MaxDocumentSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrDocumentTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Marshal encodes a document
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save writes a document, choosing the format from the extension
func Save(doc *Document, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
