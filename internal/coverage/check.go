package coverage

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/runcfg/internal/config"
	"github.com/wesleyorama2/runcfg/internal/log"
)

// Shortfall is one metric of one scope that fell below its threshold.
type Shortfall struct {
	Scope    string
	Metric   string
	Actual   float64
	Required float64
}

func (s Shortfall) String() string {
	return fmt.Sprintf("%s: %s coverage %.2f%% does not meet threshold %.2f%%", s.Scope, s.Metric, s.Actual, s.Required)
}

// ScopeResult is the aggregated coverage of one threshold scope.
type ScopeResult struct {
	Scope      string
	Files      int
	Coverage   FileCoverage
	Thresholds config.Thresholds
	// Skipped is set for the global scope when every file was claimed by a
	// directory scope.
	Skipped bool
}

// Distribution summarizes per-file line coverage.
type Distribution struct {
	Files int
	Min   float64
	P50   float64
	P90   float64
	Max   float64
}

// Report is the outcome of Check.
type Report struct {
	Scopes     []ScopeResult
	Shortfalls []Shortfall
	// Missing lists directory scopes that matched no file in the summary.
	Missing      []string
	Distribution Distribution
}

// Passed reports whether every scope met its thresholds.
func (r *Report) Passed() bool {
	return len(r.Shortfalls) == 0 && len(r.Missing) == 0
}

// ScopeFor returns the threshold scope that claims path: the longest
// directory scope containing it, or the global scope. Absolute paths are
// made relative to the document's root directory first.
func ScopeFor(doc *config.Document, path string) string {
	rel := relPath(doc.RootDir, path)
	best := config.GlobalScope
	bestLen := 0
	for scope := range doc.CoverageThresholds {
		if scope == config.GlobalScope {
			continue
		}
		prefix := scopePrefix(scope)
		if strings.HasPrefix(rel, prefix) && len(prefix) > bestLen {
			best, bestLen = scope, len(prefix)
		}
	}
	return best
}

// Check aggregates the summary per scope and compares each aggregate with
// its thresholds. Files claimed by a directory scope do not count toward
// the global scope.
func Check(doc *config.Document, summary *Summary) *Report {
	logger := log.WithComponent("coverage")

	byScope := make(map[string][]FileCoverage)
	for _, f := range summary.Files {
		scope := ScopeFor(doc, f.Path)
		byScope[scope] = append(byScope[scope], f)
	}

	report := &Report{Distribution: distribution(summary.Files)}
	for _, scope := range doc.Scopes() {
		thresholds := doc.CoverageThresholds[scope]
		files := byScope[scope]
		result := ScopeResult{Scope: scope, Files: len(files), Thresholds: thresholds}

		switch {
		case scope == config.GlobalScope && len(doc.CoverageThresholds) == 1:
			result.Coverage = summary.Total
			result.Files = len(summary.Files)
		case len(files) == 0 && scope == config.GlobalScope:
			result.Skipped = true
			report.Scopes = append(report.Scopes, result)
			continue
		case len(files) == 0:
			logger.Warn().Str("scope", scope).Msg("no coverage data for scope")
			report.Missing = append(report.Missing, scope)
			report.Scopes = append(report.Scopes, result)
			continue
		default:
			for _, f := range files {
				result.Coverage = result.Coverage.add(f)
			}
		}
		result.Coverage.Path = scope

		for _, m := range thresholds.Metrics() {
			actual := result.Coverage.Metric(m.Name).Pct()
			if actual < m.Value {
				report.Shortfalls = append(report.Shortfalls, Shortfall{
					Scope:    scope,
					Metric:   m.Name,
					Actual:   actual,
					Required: m.Value,
				})
			}
		}
		logger.Debug().
			Str("scope", scope).
			Int("files", result.Files).
			Float64("lines", result.Coverage.Lines.Pct()).
			Msg("scope checked")
		report.Scopes = append(report.Scopes, result)
	}
	return report
}

// Uncovered returns the files of the summary whose line coverage is below
// pct, lowest first.
func Uncovered(summary *Summary, pct float64) []FileCoverage {
	var out []FileCoverage
	for _, f := range summary.Files {
		if f.Lines.Pct() < pct {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Lines.Pct() < out[j].Lines.Pct()
	})
	return out
}

func distribution(files []FileCoverage) Distribution {
	if len(files) == 0 {
		return Distribution{}
	}
	// Percentages are recorded in hundredths. Four significant figures keep
	// every value up to 10000 in its own bucket, so reported values are exact.
	hist := hdrhistogram.New(0, 10000, 4)
	for _, f := range files {
		_ = hist.RecordValue(int64(math.Round(f.Lines.Pct() * 100)))
	}
	return Distribution{
		Files: len(files),
		Min:   float64(hist.Min()) / 100,
		P50:   float64(hist.ValueAtQuantile(50)) / 100,
		P90:   float64(hist.ValueAtQuantile(90)) / 100,
		Max:   float64(hist.Max()) / 100,
	}
}

func scopePrefix(scope string) string {
	p := strings.TrimPrefix(filepath.ToSlash(scope), "./")
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func relPath(root, path string) string {
	if root != "" && filepath.IsAbs(filepath.FromSlash(path)) {
		if rel, err := filepath.Rel(root, filepath.FromSlash(path)); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}
