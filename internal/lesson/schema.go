package lesson

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed lesson.schema.json
var lessonSchema []byte

const lessonSchemaURL = "schema://lesson.json"

// schemaCache caches compiled schemas by URL.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Validate checks a decoded lesson document (as produced by encoding/json)
// against the lesson schema.
func Validate(doc any) error {
	return validate(lessonSchemaURL, doc)
}

// ValidateExercise checks a single decoded exercise object.
func ValidateExercise(doc any) error {
	return validate(lessonSchemaURL+"#/$defs/exercise", doc)
}

func validate(url string, doc any) error {
	compiled, err := getCompiledSchema(url)
	if err != nil {
		return fmt.Errorf("compile lesson schema: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(url string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(url); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw bytes.
	var def any
	if err := json.Unmarshal(lessonSchema, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(lessonSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(url, compiled)
	return compiled, nil
}
