package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wesleyorama2/runcfg/internal/config"
	"github.com/wesleyorama2/runcfg/internal/coverage"
)

// Formatter renders documents, errors and coverage reports as text.
type Formatter struct {
	NoColor bool
	// CPUs is used to show the effective worker count.
	CPUs   int
	colors *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(noColor bool, cpus int) *Formatter {
	return &Formatter{
		NoColor: noColor,
		CPUs:    cpus,
		colors:  SchemeFor(noColor),
	}
}

// FormatDocument renders a resolved document for display
func (f *Formatter) FormatDocument(doc *config.Document) (string, error) {
	var buf strings.Builder
	c := f.colors

	field := func(name string, value interface{}) {
		buf.WriteString(fmt.Sprintf("%s %v\n", c.Key.Sprintf("%-20s", name), value))
	}
	list := func(name string, values []string) {
		if len(values) == 0 {
			field(name, c.Muted.Sprint("(none)"))
			return
		}
		buf.WriteString(c.Key.Sprint(name) + "\n")
		for _, v := range values {
			buf.WriteString("  " + v + "\n")
		}
	}
	mapping := func(name string, m config.Mapping) {
		if len(m) == 0 {
			field(name, c.Muted.Sprint("(none)"))
			return
		}
		buf.WriteString(c.Key.Sprint(name) + "\n")
		for _, e := range m {
			buf.WriteString(fmt.Sprintf("  %s -> %s\n", e.Pattern, e.Target))
		}
	}

	buf.WriteString(c.Title.Sprint("Configuration") + "\n")
	field("Root directory", doc.RootDir)
	field("Environment", doc.Environment)
	workers := doc.WorkerConcurrency.String()
	if f.CPUs > 0 {
		workers = fmt.Sprintf("%s (%d workers on %d CPUs)", workers, doc.WorkerConcurrency.Workers(f.CPUs), f.CPUs)
	}
	field("Workers", workers)
	field("Fail fast", doc.FailFast)
	field("Verbose", doc.Verbose)
	list("Test files", doc.TestFileGlobs)
	list("Ignore paths", doc.IgnorePaths)
	list("Setup hooks", doc.SetupHooks)
	list("Reporters", doc.Reporters)
	mapping("Path aliases", doc.PathAliases)
	mapping("Transforms", doc.Transforms)
	list("Watch plugins", doc.WatchPlugins)

	buf.WriteString("\n" + c.Title.Sprint("Coverage") + "\n")
	if doc.CoverageEnabled {
		field("Enabled", fmt.Sprintf("true (%s)", doc.CoverageDirectory))
	} else {
		field("Enabled", false)
	}
	list("Include", doc.CoverageIncludeGlobs)
	list("Exclude", doc.CoverageExcludeGlobs)
	buf.WriteString(fmt.Sprintf("%s %10s %10s %10s %10s\n", c.Key.Sprintf("%-20s", "Thresholds"),
		"statements", "branches", "functions", "lines"))
	for _, scope := range doc.Scopes() {
		t := doc.CoverageThresholds[scope]
		buf.WriteString(fmt.Sprintf("  %s %10.2f %10.2f %10.2f %10.2f\n",
			c.Scope.Sprintf("%-18s", scope), t.Statements, t.Branches, t.Functions, t.Lines))
	}

	return buf.String(), nil
}

// FormatReport renders a coverage threshold report
func (f *Formatter) FormatReport(report *coverage.Report) (string, error) {
	var buf strings.Builder
	c := f.colors

	buf.WriteString(c.Title.Sprint("Coverage thresholds") + "\n")
	missing := make(map[string]bool, len(report.Missing))
	for _, m := range report.Missing {
		missing[m] = true
	}
	failed := make(map[string]map[string]bool)
	for _, s := range report.Shortfalls {
		if failed[s.Scope] == nil {
			failed[s.Scope] = make(map[string]bool)
		}
		failed[s.Scope][s.Metric] = true
	}

	for _, s := range report.Scopes {
		switch {
		case s.Skipped:
			buf.WriteString(fmt.Sprintf("  - %s %s\n", c.Scope.Sprint(s.Scope), c.Muted.Sprint("skipped, every file belongs to a directory scope")))
			continue
		case missing[s.Scope]:
			buf.WriteString(fmt.Sprintf("  %s %s %s\n", ErrorIcon(f.NoColor), c.Scope.Sprint(s.Scope), c.Error.Sprint("no coverage data")))
			continue
		}

		icon := SuccessIcon(f.NoColor)
		if len(failed[s.Scope]) > 0 {
			icon = ErrorIcon(f.NoColor)
		}
		buf.WriteString(fmt.Sprintf("  %s %s (%d files)\n", icon, c.Scope.Sprint(s.Scope), s.Files))
		for _, m := range s.Thresholds.Metrics() {
			actual := s.Coverage.Metric(m.Name).Pct()
			value := c.Success.Sprintf("%6.2f%%", actual)
			if failed[s.Scope][m.Name] {
				value = c.Error.Sprintf("%6.2f%%", actual)
			}
			buf.WriteString(fmt.Sprintf("      %-11s %s  (min %.2f%%)\n", m.Name, value, m.Value))
		}
	}

	if d := report.Distribution; d.Files > 0 {
		buf.WriteString(fmt.Sprintf("\nLine coverage across %d files: min %.2f%%  p50 %.2f%%  p90 %.2f%%  max %.2f%%\n",
			d.Files, d.Min, d.P50, d.P90, d.Max))
	}

	if report.Passed() {
		buf.WriteString(fmt.Sprintf("\n%s %s\n", SuccessIcon(f.NoColor), c.Success.Sprint("All coverage thresholds met")))
	} else {
		buf.WriteString(fmt.Sprintf("\n%s %s\n", ErrorIcon(f.NoColor),
			c.Error.Sprintf("%d threshold(s) not met, %d scope(s) without data", len(report.Shortfalls), len(report.Missing))))
		for _, s := range report.Shortfalls {
			buf.WriteString("  " + s.String() + "\n")
		}
	}
	return buf.String(), nil
}

// FormatError renders a resolution error. Validation errors are listed one
// per line with their kind and field.
func (f *Formatter) FormatError(err error) string {
	var buf strings.Builder
	c := f.colors

	var verrs *config.ValidationErrors
	if errors.As(err, &verrs) {
		buf.WriteString(fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor),
			c.Error.Sprintf("%d configuration error(s)", len(verrs.Errors))))
		for _, e := range verrs.Errors {
			field := e.Field
			if field == "" {
				field = "(document)"
			}
			buf.WriteString(fmt.Sprintf("  %s %s: %s\n", c.Muted.Sprintf("[%s]", e.Kind), c.Key.Sprint(field), e.Message))
		}
		return buf.String()
	}

	buf.WriteString(fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor), c.Error.Sprint(err.Error())))
	return buf.String()
}

// FormatWarnings renders non-fatal findings.
func (f *Formatter) FormatWarnings(warnings []string) string {
	var buf strings.Builder
	for _, w := range warnings {
		buf.WriteString(fmt.Sprintf("%s %s\n", WarningIcon(f.NoColor), f.colors.Warning.Sprint(w)))
	}
	return buf.String()
}

// FormatValid renders the success line of the validate command.
func (f *Formatter) FormatValid(source string) string {
	return fmt.Sprintf("%s %s\n", SuccessIcon(f.NoColor), f.colors.Success.Sprintf("configuration is valid (%s)", source))
}
