package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// MappingEntry is one pattern -> target pair.
type MappingEntry struct {
	Pattern string
	Target  string
}

// Mapping is an ordered pattern -> target table. Order matters: the first
// entry whose pattern matches wins. It decodes from a JSON or YAML object
// and keeps duplicate keys so validation can report them.
type Mapping []MappingEntry

// Get returns the target of the first entry with the given pattern.
func (m Mapping) Get(pattern string) (string, bool) {
	for _, e := range m {
		if e.Pattern == pattern {
			return e.Target, true
		}
	}
	return "", false
}

// Duplicates returns every pattern that appears more than once, in order of
// its second occurrence.
func (m Mapping) Duplicates() []string {
	seen := make(map[string]int, len(m))
	var dups []string
	for _, e := range m {
		seen[e.Pattern]++
		if seen[e.Pattern] == 2 {
			dups = append(dups, e.Pattern)
		}
	}
	return dups
}

// Rewriter is a Mapping with every pattern compiled.
type Rewriter struct {
	entries []rewriteEntry
}

type rewriteEntry struct {
	re     *regexp.Regexp
	target string
}

// Compile compiles every pattern of m once. The first pattern that is not
// a valid regular expression fails the whole mapping.
func (m Mapping) Compile() (*Rewriter, error) {
	r := &Rewriter{entries: make([]rewriteEntry, 0, len(m))}
	for _, e := range m {
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", e.Pattern, err)
		}
		r.entries = append(r.entries, rewriteEntry{re: re, target: e.Target})
	}
	return r, nil
}

// Rewrite applies the first entry whose pattern matches specifier, expanding
// $1..$n in the target. Without a match specifier is returned unchanged.
func (r *Rewriter) Rewrite(specifier string) (string, bool) {
	for _, e := range r.entries {
		match := e.re.FindStringSubmatchIndex(specifier)
		if match == nil {
			continue
		}
		return string(e.re.ExpandString(nil, e.target, specifier, match)), true
	}
	return specifier, false
}

func (m Mapping) clone() Mapping {
	if m == nil {
		return nil
	}
	out := make(Mapping, len(m))
	copy(out, m)
	return out
}

// MarshalJSON implements json.Marshaler, preserving entry order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Pattern)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Target)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving entry order.
func (m *Mapping) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := Mapping{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}
		var target string
		if err := dec.Decode(&target); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		out = append(out, MappingEntry{Pattern: key, Target: target})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalYAML implements yaml.Marshaler, preserving entry order.
func (m Mapping) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Pattern},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Target},
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, preserving entry order.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}
	out := make(Mapping, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, target string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&target); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		out = append(out, MappingEntry{Pattern: key, Target: target})
	}
	*m = out
	return nil
}
