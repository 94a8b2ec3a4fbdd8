package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a ConfigurationError.
type ErrorKind string

const (
	// KindThresholdOutOfRange marks a coverage percentage outside [0,100].
	KindThresholdOutOfRange ErrorKind = "threshold-out-of-range"
	// KindMissingScope marks a threshold table without a "global" entry.
	KindMissingScope ErrorKind = "missing-scope"
	// KindMalformedPattern marks an empty or uncompilable glob or regexp.
	KindMalformedPattern ErrorKind = "malformed-pattern"
	// KindDuplicateAlias marks a repeated key in an ordered mapping.
	KindDuplicateAlias ErrorKind = "duplicate-alias"
	// KindInvalidValue marks any other out-of-domain setting.
	KindInvalidValue ErrorKind = "invalid-value"
	// KindSchema marks a config file that does not match the JSON schema.
	KindSchema ErrorKind = "schema"
	// KindMalformedDocument marks a config file that cannot be decoded.
	KindMalformedDocument ErrorKind = "malformed-document"
)

// ConfigurationError is the single error type raised while constructing a
// Document. Every ConfigurationError is fatal at startup.
type ConfigurationError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is a collection of configuration errors.
type ValidationErrors struct {
	Errors []*ConfigurationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no configuration errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d configuration errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(kind ErrorKind, field, message string) {
	e.Errors = append(e.Errors, &ConfigurationError{Kind: kind, Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasKind reports whether err is, or contains, a ConfigurationError of the
// given kind.
func HasKind(err error, kind ErrorKind) bool {
	var verrs *ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs.Errors {
			if e.Kind == kind {
				return true
			}
		}
		return false
	}
	var cerr *ConfigurationError
	return errors.As(err, &cerr) && cerr.Kind == kind
}
