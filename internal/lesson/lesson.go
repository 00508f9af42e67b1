// Package lesson loads lesson documents, checks their content and runs a
// learner through their exercises.
package lesson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/hayer/internal/exercise"
)

// Lesson is an ordered list of exercises.
type Lesson struct {
	ID        string              `json:"id"`
	Title     string              `json:"title,omitempty"`
	Exercises []exercise.Exercise `json:"exercises"`
}

// Format is the encoding of a lesson document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalid is wrapped by every error caused by document content rather
// than I/O.
var ErrInvalid = errors.New("invalid lesson document")

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// LoadFile reads and validates the lesson at path.
func LoadFile(path string) (*Lesson, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lesson: %w", err)
	}
	defer f.Close()

	l, err := Load(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Load decodes a lesson document, validates it against the lesson schema
// and returns the lesson. Config bags always come back in JSON shapes
// (float64 numbers, []any lists) whatever the input format.
func Load(r io.Reader, format Format) (*Lesson, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read lesson: %w", err)
	}

	data, err := toJSON(raw, format)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var l Lesson
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &l, nil
}

// toJSON converts a document to JSON bytes.
func toJSON(raw []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		if !json.Valid(bytes.TrimSpace(raw)) {
			return nil, fmt.Errorf("%w: malformed JSON", ErrInvalid)
		}
		return raw, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		data, err := json.Marshal(stringKeys(doc))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported lesson format %q", format)
}

// stringKeys rewrites YAML mappings with non-string keys so they can be
// encoded as JSON objects.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	}
	return v
}

// Find returns the exercise with id, or nil.
func (l *Lesson) Find(id string) *exercise.Exercise {
	for i := range l.Exercises {
		if l.Exercises[i].ID == id {
			return &l.Exercises[i]
		}
	}
	return nil
}
