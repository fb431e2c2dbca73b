package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Document is a named JSON Schema. The name doubles as the compiler
// resource id and the cache key; the set of documents is fixed at build
// time (see schemata.go).
type Document struct {
	name string
	raw  json.RawMessage
}

// Name returns the document's resource name.
func (d Document) Name() string { return d.name }

// Validator validates request payloads against the bridge's schema
// documents, compiling each document once.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate validates payload against the given document. Returns nil if
// valid, or an error naming the document and the validation failures.
func (v *Validator) Validate(doc Document, payload map[string]any) error {
	compiled, err := v.compile(doc)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", doc.name, err)
	}

	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("%s: %w", doc.name, err)
	}
	return nil
}

func (v *Validator) compile(doc Document) (*jsonschema.Schema, error) {
	v.mu.RLock()
	if s, ok := v.cache[doc.name]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[doc.name]; ok {
		return s, nil
	}

	var body any
	if err := json.Unmarshal(doc.raw, &body); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(doc.name, body); err != nil {
		return nil, fmt.Errorf("adding resource: %w", err)
	}
	compiled, err := c.Compile(doc.name)
	if err != nil {
		return nil, err
	}

	v.cache[doc.name] = compiled
	return compiled, nil
}
