// Package config resolves the test-runner configuration document.
//
// A Document is built once per process by Resolve from the built-in
// declaration (Default), an optional YAML or JSON file and a handful of
// environment variables. Resolve validates the result and either returns a
// complete Document or a *ValidationErrors describing every problem; there
// is no partially constructed state.
//
// A resolved Document is never mutated. It may be shared by reference
// between goroutines without locking; callers that need a modified copy
// use Clone.
package config

import (
	"maps"
	"regexp"
	"slices"

	"github.com/wesleyorama2/runcfg/internal/glob"
)

// GlobalScope is the threshold scope that applies to every file not claimed
// by a more specific scope. It must always be present.
const GlobalScope = "global"

// Document is the resolved configuration handed to the test-execution
// engine.
type Document struct {
	// RootDir is substituted for the <rootDir> token.
	RootDir string `json:"rootDir" yaml:"rootDir"`

	// Environment is the execution sandbox: "node" or "jsdom".
	Environment string `json:"environment" yaml:"environment"`

	// TestFileGlobs select which files count as tests.
	TestFileGlobs []string `json:"testFileGlobs" yaml:"testFileGlobs"`

	// IgnorePaths are regular expressions; a test path matching any of them
	// is skipped during discovery.
	IgnorePaths []string `json:"ignorePaths" yaml:"ignorePaths"`

	CoverageEnabled      bool                  `json:"coverageEnabled" yaml:"coverageEnabled"`
	CoverageDirectory    string                `json:"coverageDirectory" yaml:"coverageDirectory"`
	CoverageIncludeGlobs []string              `json:"coverageIncludeGlobs" yaml:"coverageIncludeGlobs"`
	CoverageExcludeGlobs []string              `json:"coverageExcludeGlobs" yaml:"coverageExcludeGlobs"`
	CoverageThresholds   map[string]Thresholds `json:"coverageThresholds" yaml:"coverageThresholds"`

	// WorkerConcurrency is a count ("4") or a share of the CPUs ("50%").
	WorkerConcurrency Concurrency `json:"workerConcurrency" yaml:"workerConcurrency"`

	Reporters  []string `json:"reporters" yaml:"reporters"`
	SetupHooks []string `json:"setupHooks" yaml:"setupHooks"`

	// PathAliases rewrite import specifiers; the first matching regular
	// expression wins.
	PathAliases Mapping `json:"pathAliases" yaml:"pathAliases"`

	// Transforms map file regular expressions to transformer names.
	Transforms Mapping `json:"transforms" yaml:"transforms"`

	WatchPlugins []string `json:"watchPlugins" yaml:"watchPlugins"`

	FailFast bool `json:"failFast" yaml:"failFast"`
	Verbose  bool `json:"verbose" yaml:"verbose"`
}

// Thresholds holds the minimum coverage percentages for one scope.
type Thresholds struct {
	Statements float64 `json:"statements" yaml:"statements"`
	Branches   float64 `json:"branches" yaml:"branches"`
	Functions  float64 `json:"functions" yaml:"functions"`
	Lines      float64 `json:"lines" yaml:"lines"`
}

// Metrics returns the thresholds keyed by metric name, in a fixed order.
func (t Thresholds) Metrics() []Metric {
	return []Metric{
		{Name: "statements", Value: t.Statements},
		{Name: "branches", Value: t.Branches},
		{Name: "functions", Value: t.Functions},
		{Name: "lines", Value: t.Lines},
	}
}

// Metric is a single named percentage.
type Metric struct {
	Name  string
	Value float64
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	c.TestFileGlobs = slices.Clone(d.TestFileGlobs)
	c.IgnorePaths = slices.Clone(d.IgnorePaths)
	c.CoverageIncludeGlobs = slices.Clone(d.CoverageIncludeGlobs)
	c.CoverageExcludeGlobs = slices.Clone(d.CoverageExcludeGlobs)
	c.CoverageThresholds = maps.Clone(d.CoverageThresholds)
	c.Reporters = slices.Clone(d.Reporters)
	c.SetupHooks = slices.Clone(d.SetupHooks)
	c.PathAliases = d.PathAliases.clone()
	c.Transforms = d.Transforms.clone()
	c.WatchPlugins = slices.Clone(d.WatchPlugins)
	return &c
}

// Scopes returns the threshold scope names with "global" first and the
// rest sorted.
func (d *Document) Scopes() []string {
	var rest []string
	for scope := range d.CoverageThresholds {
		if scope != GlobalScope {
			rest = append(rest, scope)
		}
	}
	slices.Sort(rest)
	if _, ok := d.CoverageThresholds[GlobalScope]; ok {
		return append([]string{GlobalScope}, rest...)
	}
	return rest
}

// Matchers holds the compiled path patterns of a document.
type Matchers struct {
	tests    *glob.Set
	ignore   []*regexp.Regexp
	aliases  *Rewriter
	coverage *glob.Set
}

// Matchers compiles the document's test, ignore, coverage and alias patterns.
func (d *Document) Matchers() (*Matchers, error) {
	tests, err := glob.NewSet(d.TestFileGlobs, nil)
	if err != nil {
		return nil, err
	}
	coverage, err := glob.NewSet(d.CoverageIncludeGlobs, d.CoverageExcludeGlobs)
	if err != nil {
		return nil, err
	}
	aliases, err := d.PathAliases.Compile()
	if err != nil {
		return nil, err
	}
	m := &Matchers{tests: tests, coverage: coverage, aliases: aliases}
	for _, p := range d.IgnorePaths {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		m.ignore = append(m.ignore, re)
	}
	return m, nil
}

// ResolveImport rewrites an import specifier through the path aliases.
func (m *Matchers) ResolveImport(specifier string) (string, bool) {
	return m.aliases.Rewrite(specifier)
}

// IsTestFile reports whether path (slash separated, relative to the root
// directory) is a test file.
func (m *Matchers) IsTestFile(path string) bool {
	return m.tests.Match(path) && !m.IsIgnored(path)
}

// IsIgnored reports whether path matches an ignore pattern. Patterns are
// matched against the path with a leading slash so "/build/" also hits a
// top-level build directory.
func (m *Matchers) IsIgnored(path string) bool {
	p := "/" + trimDotSlash(path)
	for _, re := range m.ignore {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

// IsCoverageFile reports whether path counts toward coverage.
func (m *Matchers) IsCoverageFile(path string) bool {
	return m.coverage.Match(path)
}

func trimDotSlash(path string) string {
	for len(path) >= 2 && path[0] == '.' && path[1] == '/' {
		path = path[2:]
	}
	for len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return path
}
