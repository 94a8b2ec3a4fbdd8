package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/wesleyorama2/runcfg/internal/glob"
)

var validEnvironments = map[string]bool{
	"node":  true,
	"jsdom": true,
}

// knownReporters are the coverage reporters the runner ships with. Others
// may come from plugins, so unknown names only produce a warning.
var knownReporters = map[string]bool{
	"clover": true, "cobertura": true, "html": true, "html-spa": true,
	"json": true, "json-summary": true, "lcov": true, "lcovonly": true,
	"none": true, "teamcity": true, "text": true, "text-lcov": true,
	"text-summary": true,
}

// Validate checks every invariant of the document.
//
// Returns nil if valid, or a *ValidationErrors containing all problems.
func Validate(d *Document) error {
	errs := &ValidationErrors{}

	if !validEnvironments[d.Environment] {
		errs.Add(KindInvalidValue, "environment",
			fmt.Sprintf("unknown environment %q, must be one of: node, jsdom", d.Environment))
	}

	validateGlobs("testFileGlobs", d.TestFileGlobs, errs)
	validateGlobs("coverageIncludeGlobs", d.CoverageIncludeGlobs, errs)
	validateGlobs("coverageExcludeGlobs", d.CoverageExcludeGlobs, errs)
	validateRegexps("ignorePaths", d.IgnorePaths, errs)

	validateThresholds(d.CoverageThresholds, errs)

	if _, _, err := d.WorkerConcurrency.parse(); err != nil {
		errs.Add(KindInvalidValue, "workerConcurrency", err.Error())
	}

	seen := make(map[string]bool, len(d.Reporters))
	for i, r := range d.Reporters {
		field := fmt.Sprintf("reporters[%d]", i)
		switch {
		case strings.TrimSpace(r) == "":
			errs.Add(KindInvalidValue, field, "reporter name cannot be empty")
		case seen[r]:
			errs.Add(KindInvalidValue, field, fmt.Sprintf("duplicate reporter %q", r))
		}
		seen[r] = true
	}

	validatePaths("setupHooks", d.SetupHooks, errs)
	validatePaths("watchPlugins", d.WatchPlugins, errs)

	validateMapping("pathAliases", d.PathAliases, errs)
	validateMapping("transforms", d.Transforms, errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Warnings returns non-fatal observations about a valid document.
func Warnings(d *Document) []string {
	var warnings []string
	for _, r := range d.Reporters {
		if r != "" && !knownReporters[r] {
			warnings = append(warnings, fmt.Sprintf("reporter %q is not built in and must be provided by a plugin", r))
		}
	}
	if d.CoverageEnabled && len(d.CoverageIncludeGlobs) == 0 {
		warnings = append(warnings, "coverage is enabled but coverageIncludeGlobs is empty; every file counts toward coverage")
	}
	return warnings
}

func validateGlobs(field string, patterns []string, errs *ValidationErrors) {
	for i, p := range patterns {
		name := fmt.Sprintf("%s[%d]", field, i)
		if p == "" {
			errs.Add(KindMalformedPattern, name, "glob pattern cannot be empty")
			continue
		}
		if _, err := glob.Compile(p); err != nil {
			errs.Add(KindMalformedPattern, name, err.Error())
		}
	}
}

func validateRegexps(field string, patterns []string, errs *ValidationErrors) {
	for i, p := range patterns {
		name := fmt.Sprintf("%s[%d]", field, i)
		if p == "" {
			errs.Add(KindMalformedPattern, name, "pattern cannot be empty")
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			errs.Add(KindMalformedPattern, name, fmt.Sprintf("invalid regular expression: %v", err))
		}
	}
}

func validatePaths(field string, paths []string, errs *ValidationErrors) {
	for i, p := range paths {
		if strings.TrimSpace(p) == "" {
			errs.Add(KindInvalidValue, fmt.Sprintf("%s[%d]", field, i), "path cannot be empty")
		}
	}
}

// scopeMetaChars are the glob characters rejected in threshold scope names.
const scopeMetaChars = "*?[]{}!"

func validateThresholds(scopes map[string]Thresholds, errs *ValidationErrors) {
	if _, ok := scopes[GlobalScope]; !ok {
		errs.Add(KindMissingScope, "coverageThresholds",
			fmt.Sprintf("a %q scope is required", GlobalScope))
	}

	scopeNames := make([]string, 0, len(scopes))
	for scope := range scopes {
		scopeNames = append(scopeNames, scope)
	}
	slices.Sort(scopeNames)
	for _, scope := range scopeNames {
		prefix := fmt.Sprintf("coverageThresholds.%s", scope)
		if strings.TrimSpace(scope) == "" {
			errs.Add(KindInvalidValue, "coverageThresholds", "scope name cannot be empty")
			continue
		}
		if scope != GlobalScope && strings.ContainsAny(scope, scopeMetaChars) {
			errs.Add(KindInvalidValue, prefix,
				"scope must be a directory path such as ./src/core/; glob and file scopes are not supported")
		}
		for _, m := range scopes[scope].Metrics() {
			// NaN must fail the range check.
			if !(m.Value >= 0 && m.Value <= 100) {
				errs.Add(KindThresholdOutOfRange, prefix+"."+m.Name,
					fmt.Sprintf("percentage must be between 0 and 100, got %g", m.Value))
			}
		}
	}
}

func validateMapping(field string, m Mapping, errs *ValidationErrors) {
	for _, dup := range m.Duplicates() {
		errs.Add(KindDuplicateAlias, fmt.Sprintf("%s[%s]", field, dup), "duplicate key")
	}
	for _, e := range m {
		name := fmt.Sprintf("%s[%s]", field, e.Pattern)
		if e.Pattern == "" {
			errs.Add(KindMalformedPattern, field, "pattern cannot be empty")
			continue
		}
		if _, err := regexp.Compile(e.Pattern); err != nil {
			errs.Add(KindMalformedPattern, name, fmt.Sprintf("invalid regular expression: %v", err))
		}
		if strings.TrimSpace(e.Target) == "" {
			errs.Add(KindInvalidValue, name, "target cannot be empty")
		}
	}
}
