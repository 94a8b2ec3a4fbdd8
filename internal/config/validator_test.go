package config

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func validDocument() *Document {
	doc := Default()
	doc.RootDir = "/repo"
	return doc
}

func TestValidate_Default(t *testing.T) {
	if err := Validate(validDocument()); err != nil {
		t.Errorf("Validate() returned error for default document: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *Document)
		wantKind ErrorKind
		field    string
	}{
		{
			name:     "threshold above 100",
			mutate:   func(d *Document) { d.CoverageThresholds[GlobalScope] = Thresholds{Statements: 101} },
			wantKind: KindThresholdOutOfRange,
			field:    "coverageThresholds.global.statements",
		},
		{
			name: "negative threshold in scope",
			mutate: func(d *Document) {
				d.CoverageThresholds["./src/core/"] = Thresholds{Statements: 90, Branches: -1, Functions: 90, Lines: 90}
			},
			wantKind: KindThresholdOutOfRange,
			field:    "coverageThresholds../src/core/.branches",
		},
		{
			name:     "NaN threshold",
			mutate:   func(d *Document) { d.CoverageThresholds[GlobalScope] = Thresholds{Statements: math.NaN()} },
			wantKind: KindThresholdOutOfRange,
			field:    "coverageThresholds.global.statements",
		},
		{
			name:     "infinite threshold",
			mutate:   func(d *Document) { d.CoverageThresholds[GlobalScope] = Thresholds{Lines: math.Inf(1)} },
			wantKind: KindThresholdOutOfRange,
			field:    "coverageThresholds.global.lines",
		},
		{
			name:     "glob scope",
			mutate:   func(d *Document) { d.CoverageThresholds["./src/**/*.js"] = Thresholds{Lines: 50} },
			wantKind: KindInvalidValue,
			field:    "coverageThresholds../src/**/*.js",
		},
		{
			name:     "missing global scope",
			mutate:   func(d *Document) { delete(d.CoverageThresholds, GlobalScope) },
			wantKind: KindMissingScope,
			field:    "coverageThresholds",
		},
		{
			name:     "nil threshold table",
			mutate:   func(d *Document) { d.CoverageThresholds = nil },
			wantKind: KindMissingScope,
			field:    "coverageThresholds",
		},
		{
			name:     "empty test glob",
			mutate:   func(d *Document) { d.TestFileGlobs = append(d.TestFileGlobs, "") },
			wantKind: KindMalformedPattern,
			field:    "testFileGlobs[2]",
		},
		{
			name:     "empty exclude glob",
			mutate:   func(d *Document) { d.CoverageExcludeGlobs = []string{""} },
			wantKind: KindMalformedPattern,
			field:    "coverageExcludeGlobs[0]",
		},
		{
			name:     "bad ignore regexp",
			mutate:   func(d *Document) { d.IgnorePaths = []string{"/build/(" } },
			wantKind: KindMalformedPattern,
			field:    "ignorePaths[0]",
		},
		{
			name: "duplicate alias",
			mutate: func(d *Document) {
				d.PathAliases = append(d.PathAliases, MappingEntry{Pattern: `^@/(.*)$`, Target: "lib/$1"})
			},
			wantKind: KindDuplicateAlias,
			field:    "pathAliases[^@/(.*)$]",
		},
		{
			name: "duplicate transform",
			mutate: func(d *Document) {
				d.Transforms = append(d.Transforms, d.Transforms[0])
			},
			wantKind: KindDuplicateAlias,
		},
		{
			name:     "bad alias regexp",
			mutate:   func(d *Document) { d.PathAliases = Mapping{{Pattern: "^@/(.*$", Target: "x"}} },
			wantKind: KindMalformedPattern,
		},
		{
			name:     "empty alias target",
			mutate:   func(d *Document) { d.PathAliases = Mapping{{Pattern: "^x$", Target: " "}} },
			wantKind: KindInvalidValue,
		},
		{
			name:     "unknown environment",
			mutate:   func(d *Document) { d.Environment = "browser" },
			wantKind: KindInvalidValue,
			field:    "environment",
		},
		{
			name:     "zero workers",
			mutate:   func(d *Document) { d.WorkerConcurrency = "0" },
			wantKind: KindInvalidValue,
			field:    "workerConcurrency",
		},
		{
			name:     "percent above 100",
			mutate:   func(d *Document) { d.WorkerConcurrency = "150%" },
			wantKind: KindInvalidValue,
			field:    "workerConcurrency",
		},
		{
			name:     "duplicate reporter",
			mutate:   func(d *Document) { d.Reporters = []string{"text", "text"} },
			wantKind: KindInvalidValue,
			field:    "reporters[1]",
		},
		{
			name:     "empty setup hook",
			mutate:   func(d *Document) { d.SetupHooks = []string{""} },
			wantKind: KindInvalidValue,
			field:    "setupHooks[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)

			err := Validate(doc)
			if err == nil {
				t.Fatal("Validate() should return error")
			}
			if !HasKind(err, tt.wantKind) {
				t.Errorf("expected %s error, got: %v", tt.wantKind, err)
			}
			if tt.field != "" && !strings.Contains(err.Error(), "'"+tt.field+"'") {
				t.Errorf("error should name field %q, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	doc := validDocument()
	doc.Environment = ""
	doc.TestFileGlobs = []string{""}
	delete(doc.CoverageThresholds, GlobalScope)

	err := Validate(doc)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
	if len(verrs.Errors) != 3 {
		t.Errorf("len(Errors) = %d, want 3: %v", len(verrs.Errors), err)
	}
}

func TestWarnings(t *testing.T) {
	doc := validDocument()
	if w := Warnings(doc); len(w) != 0 {
		t.Errorf("expected no warnings for default document, got %v", w)
	}

	doc.Reporters = append(doc.Reporters, "jest-junit")
	doc.CoverageIncludeGlobs = nil
	w := Warnings(doc)
	if len(w) != 2 {
		t.Fatalf("expected 2 warnings, got %v", w)
	}
	if !strings.Contains(w[0], "jest-junit") {
		t.Errorf("first warning should name the reporter, got %q", w[0])
	}
}

func TestValidationErrors(t *testing.T) {
	errs := &ValidationErrors{}

	if errs.HasErrors() {
		t.Error("Empty ValidationErrors should not have errors")
	}
	if errs.Error() != "no configuration errors" {
		t.Errorf("unexpected empty message: %q", errs.Error())
	}

	errs.Add(KindInvalidValue, "field1", "message1")
	errs.Add(KindMissingScope, "field2", "message2")

	if !errs.HasErrors() {
		t.Error("ValidationErrors with errors should have errors")
	}

	errStr := errs.Error()
	if !strings.Contains(errStr, "field1") || !strings.Contains(errStr, "field2") {
		t.Errorf("Error string should contain all fields, got: %v", errStr)
	}
	if !strings.Contains(errStr, "2 configuration errors") {
		t.Errorf("Error string should mention count, got: %v", errStr)
	}

	var cerr *ConfigurationError
	if !errors.As(errs, &cerr) || cerr.Field != "field1" {
		t.Errorf("errors.As should find the first ConfigurationError, got %v", cerr)
	}
	if HasKind(errs, KindSchema) {
		t.Error("HasKind reported a kind that is not present")
	}
}

func TestConfigurationError_Error(t *testing.T) {
	cause := errors.New("boom")
	err := &ConfigurationError{Kind: KindMalformedDocument, Field: "a.yaml", Message: "bad", Err: cause}

	if got, want := err.Error(), "configuration error on field 'a.yaml': bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	noField := &ConfigurationError{Kind: KindInvalidValue, Message: "bad"}
	if got, want := noField.Error(), "configuration error: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !HasKind(noField, KindInvalidValue) {
		t.Error("HasKind should match a bare ConfigurationError")
	}
}
