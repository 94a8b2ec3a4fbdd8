// Package coverage enforces a document's coverage thresholds against an
// Istanbul json-summary report.
package coverage

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// SummaryFile is the file name the json-summary reporter writes inside the
// coverage directory.
const SummaryFile = "coverage-summary.json"

// ErrInvalidSummary is returned when a report is not a JSON object.
var ErrInvalidSummary = errors.New("invalid coverage summary")

// Counts is the coverage of one metric.
type Counts struct {
	Total   int
	Covered int
}

// Pct returns the covered percentage, floored to two decimals. A metric
// with nothing to cover counts as fully covered.
func (c Counts) Pct() float64 {
	if c.Total == 0 {
		return 100
	}
	return math.Floor(10000*float64(c.Covered)/float64(c.Total)) / 100
}

func (c Counts) add(o Counts) Counts {
	return Counts{Total: c.Total + o.Total, Covered: c.Covered + o.Covered}
}

// FileCoverage holds the four metrics of one file, or of an aggregate.
type FileCoverage struct {
	Path       string
	Statements Counts
	Branches   Counts
	Functions  Counts
	Lines      Counts
}

// Metric returns the counts for a metric name.
func (f FileCoverage) Metric(name string) Counts {
	switch name {
	case "statements":
		return f.Statements
	case "branches":
		return f.Branches
	case "functions":
		return f.Functions
	default:
		return f.Lines
	}
}

func (f FileCoverage) add(o FileCoverage) FileCoverage {
	f.Statements = f.Statements.add(o.Statements)
	f.Branches = f.Branches.add(o.Branches)
	f.Functions = f.Functions.add(o.Functions)
	f.Lines = f.Lines.add(o.Lines)
	return f
}

// Summary is a parsed json-summary report.
type Summary struct {
	Total FileCoverage
	// Files keeps the report order.
	Files []FileCoverage
}

// LoadSummary reads and parses a json-summary report.
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage summary: %w", err)
	}
	s, err := ParseSummary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSummary parses a json-summary report. Every key other than "total"
// is a file path.
func ParseSummary(data []byte) (*Summary, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidSummary)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidSummary)
	}

	s := &Summary{}
	root.ForEach(func(key, value gjson.Result) bool {
		fc := fileCoverage(key.String(), value)
		if key.String() == "total" {
			s.Total = fc
		} else {
			s.Files = append(s.Files, fc)
		}
		return true
	})
	return s, nil
}

func fileCoverage(path string, v gjson.Result) FileCoverage {
	counts := func(metric string) Counts {
		m := v.Get(metric)
		return Counts{
			Total:   int(m.Get("total").Int()),
			Covered: int(m.Get("covered").Int()),
		}
	}
	return FileCoverage{
		Path:       filepath.ToSlash(path),
		Statements: counts("statements"),
		Branches:   counts("branches"),
		Functions:  counts("functions"),
		Lines:      counts("lines"),
	}
}
