// Package glob compiles the path patterns used for test discovery and
// coverage collection.
//
// Patterns use forward slashes and support `*`, `?`, `[...]`, `{a,b}` and
// `**`. A `**/` segment also matches zero directories, so `**/*.test.js`
// matches `a.test.js` as well as `src/a.test.js`. A leading `!` negates
// the pattern.
package glob

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrEmptyPattern is returned when a pattern is empty or consists only of
// the negation marker.
var ErrEmptyPattern = errors.New("glob pattern cannot be empty")

// Pattern is a compiled glob pattern.
type Pattern struct {
	raw      string
	negated  bool
	matchers []glob.Glob
}

// Compile compiles a single pattern.
func Compile(pattern string) (*Pattern, error) {
	body, negated := strings.CutPrefix(pattern, "!")
	body = strings.TrimPrefix(body, "./")
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyPattern
	}

	p := &Pattern{raw: pattern, negated: negated}
	for _, variant := range expandDoubleStar(body) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		p.matchers = append(p.matchers, g)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether path matches the pattern body, ignoring negation.
func (p *Pattern) Match(path string) bool {
	path = normalize(path)
	for _, m := range p.matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

// Negated reports whether the pattern was written with a leading `!`.
func (p *Pattern) Negated() bool {
	return p.negated
}

func (p *Pattern) String() string {
	return p.raw
}

// Set combines include and exclude patterns.
type Set struct {
	include []*Pattern
	exclude []*Pattern
}

// NewSet compiles include and exclude patterns. Negated entries in include
// are treated as excludes. An empty include list matches every path that is
// not excluded.
func NewSet(include, exclude []string) (*Set, error) {
	s := &Set{}
	for _, raw := range include {
		p, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		if p.negated {
			s.exclude = append(s.exclude, p)
		} else {
			s.include = append(s.include, p)
		}
	}
	for _, raw := range exclude {
		p, err := Compile(strings.TrimPrefix(raw, "!"))
		if err != nil {
			return nil, err
		}
		s.exclude = append(s.exclude, p)
	}
	return s, nil
}

// Match reports whether path matches any include and no exclude pattern.
func (s *Set) Match(path string) bool {
	for _, p := range s.exclude {
		if p.Match(path) {
			return false
		}
	}
	if len(s.include) == 0 {
		return true
	}
	for _, p := range s.include {
		if p.Match(path) {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// expandDoubleStar returns every variant of pattern in which each `**/`
// segment is either kept or collapsed to nothing.
func expandDoubleStar(pattern string) []string {
	idx := strings.Index(pattern, "**/")
	if idx < 0 {
		return []string{pattern}
	}
	if idx > 0 && pattern[idx-1] != '/' {
		// "a**/" is not a directory wildcard; leave it to the matcher.
		head := pattern[:idx+3]
		var out []string
		for _, rest := range expandDoubleStar(pattern[idx+3:]) {
			out = append(out, head+rest)
		}
		return out
	}

	head, tail := pattern[:idx], pattern[idx+3:]
	var out []string
	for _, rest := range expandDoubleStar(tail) {
		out = append(out, head+"**/"+rest, head+rest)
	}
	return out
}
