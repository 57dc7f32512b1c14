// Package validation checks dynamic payloads (marketplace ad attributes)
// against JSON Schema documents.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// Validator compiles each named schema once and reuses it across requests.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{cache: make(map[string]*gojsonschema.Schema)}
}

// Validate checks data against the schema registered under name. A nil or
// empty schema accepts anything.
func (v *Validator) Validate(name string, data, schema map[string]interface{}) error {
	if len(schema) == 0 {
		return nil
	}

	compiled, err := v.compiled(name, schema)
	if err != nil {
		return err
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(dataJSON))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationErrors{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}

func (v *Validator) compiled(name string, schema map[string]interface{}) (*gojsonschema.Schema, error) {
	v.mu.RLock()
	compiled, ok := v.cache[name]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiled, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compiling schema %q: %w", name, err)
	}

	v.mu.Lock()
	v.cache[name] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
