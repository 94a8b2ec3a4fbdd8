// Package jsonschema validates decoded JSON documents against a JSON Schema.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Violation is a single schema violation.
type Violation struct {
	// Location is a JSON pointer into the instance, e.g. "/reporters/0".
	Location string
	Message  string
}

func (v Violation) Error() string {
	loc := v.Location
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("validation error at %s: %s", loc, v.Message)
}

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile compiles schemaStr, registered under name for error messages.
func Compile(name, schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(name, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// ValidateValue validates a value shaped like the output of json.Unmarshal
// into interface{} (maps, slices, float64, string, bool, nil).
//
// Returns nil if the value is valid.
func (s *Schema) ValidateValue(v interface{}) ValidationErrors {
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		if errs := extractValidationErrors(validationErr); len(errs) > 0 {
			return errs
		}
	}
	return ValidationErrors{err}
}

// ValidateJSON parses data and validates it.
func (s *Schema) ValidateJSON(data []byte) ValidationErrors {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}
	return s.ValidateValue(v)
}

// extractValidationErrors flattens a jsonschema.ValidationError tree into
// its leaf violations; inner nodes only summarize their causes.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		if err.Message == "" {
			return nil
		}
		return ValidationErrors{Violation{Location: err.InstanceLocation, Message: err.Message}}
	}

	var errors ValidationErrors
	for _, childErr := range err.Causes {
		errors = append(errors, extractValidationErrors(childErr)...)
	}
	return errors
}
