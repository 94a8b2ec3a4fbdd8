// Package jsonpath evaluates simple JSONPath expressions against JSON
// documents using gjson.
//
// Supported syntax is the root `$`, dotted member names, numeric indexes
// (`[0]`) and quoted member names (`['./src/core/']` or `["^@/(.*)$"]`),
// which may contain any character.
package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyPath is returned for an empty expression.
	ErrEmptyPath = errors.New("empty JSONPath expression")
	// ErrNotFound is returned when the expression selects nothing.
	ErrNotFound = errors.New("path not found")
)

// Compile converts a JSONPath expression to a gjson path. The root
// expression compiles to "@this".
func Compile(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	rest := strings.TrimPrefix(path, "$")

	var parts []string
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			name := rest[:end]
			if name == "" {
				return "", fmt.Errorf("invalid JSONPath %q: empty member name", path)
			}
			parts = append(parts, gjson.Escape(name))
			rest = rest[end:]
		case '[':
			seg, n, err := bracket(rest)
			if err != nil {
				return "", fmt.Errorf("invalid JSONPath %q: %w", path, err)
			}
			parts = append(parts, seg)
			rest = rest[n:]
		default:
			if len(parts) > 0 || strings.HasPrefix(path, "$") {
				return "", fmt.Errorf("invalid JSONPath %q: unexpected %q", path, rest[0])
			}
			// Bare member name without "$.".
			rest = "." + rest
		}
	}

	if len(parts) == 0 {
		return "@this", nil
	}
	return strings.Join(parts, "."), nil
}

// bracket parses one [..] segment at the start of s and returns the gjson
// path component and the number of bytes consumed.
func bracket(s string) (string, int, error) {
	if len(s) > 1 && (s[1] == '\'' || s[1] == '"') {
		quote := s[1]
		end := strings.IndexByte(s[2:], quote)
		if end < 0 || len(s) < end+4 || s[end+3] != ']' {
			return "", 0, errors.New("unterminated quoted member")
		}
		return gjson.Escape(s[2 : end+2]), end + 4, nil
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", 0, errors.New("unterminated index")
	}
	idx, err := strconv.Atoi(s[1:end])
	if err != nil || idx < 0 {
		return "", 0, fmt.Errorf("unsupported index %q", s[1:end])
	}
	return strconv.Itoa(idx), end + 1, nil
}

// Query evaluates path against json.
func Query(json, path string) (gjson.Result, error) {
	if json == "" {
		return gjson.Result{}, errors.New("empty JSON string")
	}
	gpath, err := Compile(path)
	if err != nil {
		return gjson.Result{}, err
	}
	result := gjson.Get(json, gpath)
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return result, nil
}

// Extract returns the selected value as text. Strings are unquoted, null is
// "null" and objects and arrays are returned as indented JSON.
func Extract(json, path string) (string, error) {
	result, err := Query(json, path)
	if err != nil {
		return "", err
	}

	switch {
	case result.Type == gjson.Null:
		return "null", nil
	case result.IsObject(), result.IsArray():
		return strings.TrimSuffix(result.Get("@pretty").Raw, "\n"), nil
	default:
		return result.String(), nil
	}
}
