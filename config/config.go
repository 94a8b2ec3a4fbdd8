package config

import (
	internal "github.com/wesleyorama2/runcfg/internal/config"
)

type (
	// Document is the resolved configuration.
	Document = internal.Document
	// Thresholds holds the minimum coverage percentages of one scope.
	Thresholds = internal.Thresholds
	// Mapping is an ordered list of regular expression rewrites.
	Mapping = internal.Mapping
	// MappingEntry is one pattern and its target.
	MappingEntry = internal.MappingEntry
	// Rewriter is a compiled Mapping.
	Rewriter = internal.Rewriter
	// Concurrency is a worker count or a share of the CPUs.
	Concurrency = internal.Concurrency
	// Matchers holds a document's compiled path patterns.
	Matchers = internal.Matchers
	// Options controls Resolve.
	Options = internal.Options
	// LookupFunc reads an environment variable.
	LookupFunc = internal.LookupFunc

	// ConfigurationError is a single problem found while resolving.
	ConfigurationError = internal.ConfigurationError
	// ValidationErrors collects every ConfigurationError of a resolution.
	ValidationErrors = internal.ValidationErrors
	// ErrorKind classifies a ConfigurationError.
	ErrorKind = internal.ErrorKind
)

// GlobalScope is the threshold scope that must always be present.
const GlobalScope = internal.GlobalScope

const (
	KindThresholdOutOfRange = internal.KindThresholdOutOfRange
	KindMissingScope        = internal.KindMissingScope
	KindMalformedPattern    = internal.KindMalformedPattern
	KindDuplicateAlias      = internal.KindDuplicateAlias
	KindInvalidValue        = internal.KindInvalidValue
	KindSchema              = internal.KindSchema
	KindMalformedDocument   = internal.KindMalformedDocument
)

// Get returns the process-wide document, resolving it on first use.
// Every call returns the same value.
func Get() (*Document, error) {
	return internal.Get()
}

// MustGet is like Get but panics if the configuration is invalid.
func MustGet() *Document {
	return internal.MustGet()
}

// Resolve builds and validates a document from explicit options. Most
// callers want Get.
func Resolve(opts Options) (*Document, error) {
	return internal.Resolve(opts)
}

// Default returns the built-in declaration before any overrides.
func Default() *Document {
	return internal.Default()
}

// Validate checks every invariant of doc.
func Validate(doc *Document) error {
	return internal.Validate(doc)
}

// HasKind reports whether err contains a ConfigurationError of kind.
func HasKind(err error, kind ErrorKind) bool {
	return internal.HasKind(err, kind)
}

// MapLookup returns a LookupFunc backed by values.
func MapLookup(values map[string]string) LookupFunc {
	return internal.MapLookup(values)
}
