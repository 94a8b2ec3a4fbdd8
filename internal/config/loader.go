package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/runcfg/internal/log"
)

// Options controls Resolve.
type Options struct {
	// Path is an optional YAML or JSON config file layered over the base
	// declaration. When empty, RUNCFG_CONFIG is consulted.
	Path string

	// RootDir overrides RUNCFG_ROOT_DIR and the working directory.
	RootDir string

	// Lookup reads environment variables. Defaults to OSLookup.
	Lookup LookupFunc

	// Base replaces the built-in declaration. Defaults to Default().
	Base *Document
}

// File is a decoded config file, the overlay applied on top of the base
// declaration. Every field is a pointer so that keys absent from the file
// leave the base value untouched.
type File struct {
	RootDir              *string                `json:"rootDir" yaml:"rootDir"`
	Environment          *string                `json:"environment" yaml:"environment"`
	TestFileGlobs        *[]string              `json:"testFileGlobs" yaml:"testFileGlobs"`
	IgnorePaths          *[]string              `json:"ignorePaths" yaml:"ignorePaths"`
	CoverageEnabled      *bool                  `json:"coverageEnabled" yaml:"coverageEnabled"`
	CoverageDirectory    *string                `json:"coverageDirectory" yaml:"coverageDirectory"`
	CoverageIncludeGlobs *[]string              `json:"coverageIncludeGlobs" yaml:"coverageIncludeGlobs"`
	CoverageExcludeGlobs *[]string              `json:"coverageExcludeGlobs" yaml:"coverageExcludeGlobs"`
	CoverageThresholds   *map[string]Thresholds `json:"coverageThresholds" yaml:"coverageThresholds"`
	WorkerConcurrency    *Concurrency           `json:"workerConcurrency" yaml:"workerConcurrency"`
	Reporters            *[]string              `json:"reporters" yaml:"reporters"`
	SetupHooks           *[]string              `json:"setupHooks" yaml:"setupHooks"`
	PathAliases          *Mapping               `json:"pathAliases" yaml:"pathAliases"`
	Transforms           *Mapping               `json:"transforms" yaml:"transforms"`
	WatchPlugins         *[]string              `json:"watchPlugins" yaml:"watchPlugins"`
	FailFast             *bool                  `json:"failFast" yaml:"failFast"`
	Verbose              *bool                  `json:"verbose" yaml:"verbose"`
}

// Resolve builds, normalizes and validates a Document. It performs no I/O
// beyond reading the optional config file and the environment.
func Resolve(opts Options) (*Document, error) {
	logger := log.WithComponent("config")

	lookup := opts.Lookup
	if lookup == nil {
		lookup = OSLookup
	}

	var doc *Document
	if opts.Base != nil {
		doc = opts.Base.Clone()
	} else {
		doc = Default()
	}

	// CI only moves the defaults; a config file may still set both flags.
	ci := ciEnabled(lookup, logger)
	doc.FailFast = ci
	doc.Verbose = ci

	path := opts.Path
	if path == "" {
		path = lookupString(lookup, logger, EnvConfigFile, "")
	}
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		fc.apply(doc)
		logger.Debug().Str("path", path).Msg("applied config file")
	}

	if workers := lookupString(lookup, logger, EnvMaxWorkers, ""); workers != "" {
		doc.WorkerConcurrency = Concurrency(workers)
	}

	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = lookupString(lookup, logger, EnvRootDir, doc.RootDir)
	}
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine root directory: %w", err)
		}
		rootDir = wd
	}
	doc.RootDir = filepath.Clean(rootDir)

	normalize(doc)

	if err := Validate(doc); err != nil {
		return nil, err
	}
	for _, w := range Warnings(doc) {
		logger.Warn().Msg(w)
	}

	logger.Debug().
		Str("event", "config.resolved").
		Str("root_dir", doc.RootDir).
		Bool("fail_fast", doc.FailFast).
		Bool("verbose", doc.Verbose).
		Msg("configuration resolved")
	return doc, nil
}

// LoadFile reads a config file. The format is determined by extension:
// .json is JSON, anything else is YAML.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseFile(data, path)
}

// ParseFile decodes and schema-checks config file contents. The path is
// only used to pick the format.
func ParseFile(data []byte, path string) (*File, error) {
	var fc File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var value interface{}
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, malformed(path, err)
		}
		if err := checkSchema(value); err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return nil, malformed(path, err)
		}
	default:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, malformed(path, err)
		}
		if node.Kind == 0 {
			// Empty file: nothing to overlay.
			return &fc, nil
		}
		v, err := yamlValue(&node)
		if err != nil {
			return nil, malformed(path, err)
		}
		if err := checkSchema(v); err != nil {
			return nil, err
		}
		if err := node.Decode(&fc); err != nil {
			return nil, malformed(path, err)
		}
	}
	return &fc, nil
}

func malformed(path string, err error) error {
	return &ConfigurationError{
		Kind:    KindMalformedDocument,
		Field:   path,
		Message: fmt.Sprintf("failed to parse config file: %v", err),
		Err:     err,
	}
}

func (fc *File) apply(doc *Document) {
	if fc.RootDir != nil {
		doc.RootDir = *fc.RootDir
	}
	if fc.Environment != nil {
		doc.Environment = *fc.Environment
	}
	if fc.TestFileGlobs != nil {
		doc.TestFileGlobs = *fc.TestFileGlobs
	}
	if fc.IgnorePaths != nil {
		doc.IgnorePaths = *fc.IgnorePaths
	}
	if fc.CoverageEnabled != nil {
		doc.CoverageEnabled = *fc.CoverageEnabled
	}
	if fc.CoverageDirectory != nil {
		doc.CoverageDirectory = *fc.CoverageDirectory
	}
	if fc.CoverageIncludeGlobs != nil {
		doc.CoverageIncludeGlobs = *fc.CoverageIncludeGlobs
	}
	if fc.CoverageExcludeGlobs != nil {
		doc.CoverageExcludeGlobs = *fc.CoverageExcludeGlobs
	}
	if fc.CoverageThresholds != nil {
		doc.CoverageThresholds = *fc.CoverageThresholds
	}
	if fc.WorkerConcurrency != nil {
		doc.WorkerConcurrency = *fc.WorkerConcurrency
	}
	if fc.Reporters != nil {
		doc.Reporters = *fc.Reporters
	}
	if fc.SetupHooks != nil {
		doc.SetupHooks = *fc.SetupHooks
	}
	if fc.PathAliases != nil {
		doc.PathAliases = *fc.PathAliases
	}
	if fc.Transforms != nil {
		doc.Transforms = *fc.Transforms
	}
	if fc.WatchPlugins != nil {
		doc.WatchPlugins = *fc.WatchPlugins
	}
	if fc.FailFast != nil {
		doc.FailFast = *fc.FailFast
	}
	if fc.Verbose != nil {
		doc.Verbose = *fc.Verbose
	}
}

// normalize moves inline "!pattern" coverage entries to the exclude list
// and expands <rootDir>.
func normalize(doc *Document) {
	var include []string
	for _, p := range doc.CoverageIncludeGlobs {
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			doc.CoverageExcludeGlobs = append(doc.CoverageExcludeGlobs, rest)
			continue
		}
		include = append(include, p)
	}
	if doc.CoverageIncludeGlobs != nil {
		doc.CoverageIncludeGlobs = include
	}

	expand := func(s string) string {
		return strings.ReplaceAll(s, RootDirToken, filepath.ToSlash(doc.RootDir))
	}
	for i, hook := range doc.SetupHooks {
		doc.SetupHooks[i] = expand(hook)
	}
	for i := range doc.PathAliases {
		doc.PathAliases[i].Target = expand(doc.PathAliases[i].Target)
	}
	doc.CoverageDirectory = expand(doc.CoverageDirectory)
}

var (
	globalOnce sync.Once
	globalDoc  *Document
	globalErr  error
)

// Get returns the process-wide document, resolving it from the environment
// on first use. Every later call returns the same frozen value or error.
// Callers must not modify the returned document; use Clone instead.
func Get() (*Document, error) {
	globalOnce.Do(func() {
		globalDoc, globalErr = Resolve(Options{})
	})
	return globalDoc, globalErr
}

// MustGet is like Get but panics if resolution failed.
func MustGet() *Document {
	doc, err := Get()
	if err != nil {
		panic(err)
	}
	return doc
}
