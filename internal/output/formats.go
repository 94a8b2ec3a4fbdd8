package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/runcfg/internal/config"
	"github.com/wesleyorama2/runcfg/internal/coverage"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat parses a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatDocument(doc *config.Document) (string, error)
	FormatReport(report *coverage.Report) (string, error)
}

// ReportData is the structured form of a coverage report.
type ReportData struct {
	Passed       bool             `json:"passed" yaml:"passed"`
	Scopes       []ScopeData      `json:"scopes" yaml:"scopes"`
	Shortfalls   []ShortfallData  `json:"shortfalls" yaml:"shortfalls"`
	Missing      []string         `json:"missing,omitempty" yaml:"missing,omitempty"`
	Distribution DistributionData `json:"distribution" yaml:"distribution"`
}

// ScopeData is one scope of a coverage report.
type ScopeData struct {
	Scope      string             `json:"scope" yaml:"scope"`
	Files      int                `json:"files" yaml:"files"`
	Skipped    bool               `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Coverage   map[string]float64 `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	Thresholds config.Thresholds  `json:"thresholds" yaml:"thresholds"`
}

// ShortfallData is one failed threshold.
type ShortfallData struct {
	Scope    string  `json:"scope" yaml:"scope"`
	Metric   string  `json:"metric" yaml:"metric"`
	Actual   float64 `json:"actual" yaml:"actual"`
	Required float64 `json:"required" yaml:"required"`
}

// DistributionData summarizes per-file line coverage.
type DistributionData struct {
	Files int     `json:"files" yaml:"files"`
	Min   float64 `json:"min" yaml:"min"`
	P50   float64 `json:"p50" yaml:"p50"`
	P90   float64 `json:"p90" yaml:"p90"`
	Max   float64 `json:"max" yaml:"max"`
}

// NewReportData converts a coverage report to its structured form.
func NewReportData(r *coverage.Report) ReportData {
	data := ReportData{
		Passed:     r.Passed(),
		Scopes:     make([]ScopeData, 0, len(r.Scopes)),
		Shortfalls: make([]ShortfallData, 0, len(r.Shortfalls)),
		Missing:    r.Missing,
		Distribution: DistributionData{
			Files: r.Distribution.Files,
			Min:   r.Distribution.Min,
			P50:   r.Distribution.P50,
			P90:   r.Distribution.P90,
			Max:   r.Distribution.Max,
		},
	}
	for _, s := range r.Scopes {
		sd := ScopeData{Scope: s.Scope, Files: s.Files, Skipped: s.Skipped, Thresholds: s.Thresholds}
		if !s.Skipped && s.Files > 0 {
			sd.Coverage = make(map[string]float64)
			for _, m := range s.Thresholds.Metrics() {
				sd.Coverage[m.Name] = s.Coverage.Metric(m.Name).Pct()
			}
		}
		data.Scopes = append(data.Scopes, sd)
	}
	for _, sf := range r.Shortfalls {
		data.Shortfalls = append(data.Shortfalls, ShortfallData(sf))
	}
	return data
}

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

// FormatDocument encodes the document as indented JSON.
func (f *JSONFormatter) FormatDocument(doc *config.Document) (string, error) {
	var buf bytes.Buffer
	if err := config.Encode(&buf, doc, config.FormatJSON); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatReport encodes the report as indented JSON.
func (f *JSONFormatter) FormatReport(report *coverage.Report) (string, error) {
	b, err := json.MarshalIndent(NewReportData(report), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(b) + "\n", nil
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// FormatDocument encodes the document as YAML.
func (f *YAMLFormatter) FormatDocument(doc *config.Document) (string, error) {
	var buf bytes.Buffer
	if err := config.Encode(&buf, doc, config.FormatYAML); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatReport encodes the report as YAML.
func (f *YAMLFormatter) FormatReport(report *coverage.Report) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewReportData(report)); err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, noColor bool, cpus int) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(noColor, cpus)
	}
}
