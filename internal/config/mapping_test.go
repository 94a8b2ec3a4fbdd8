package config

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRewriter_Rewrite(t *testing.T) {
	r, err := Mapping{
		{Pattern: `^@/(.*)$`, Target: "/repo/src/$1"},
		{Pattern: `^@test/(.*)$`, Target: "/repo/tests/$1"},
		{Pattern: `^(.*)\.css$`, Target: "identity-obj-proxy"},
	}.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		specifier string
		want      string
		matched   bool
	}{
		{"@/components/Button", "/repo/src/components/Button", true},
		{"@test/helpers", "/repo/tests/helpers", true},
		{"./theme.css", "identity-obj-proxy", true},
		{"react", "react", false},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			got, ok := r.Rewrite(tt.specifier)
			if ok != tt.matched {
				t.Errorf("Rewrite(%q) matched = %v, want %v", tt.specifier, ok, tt.matched)
			}
			if got != tt.want {
				t.Errorf("Rewrite(%q) = %q, want %q", tt.specifier, got, tt.want)
			}
		})
	}
}

func TestRewriter_FirstMatchWins(t *testing.T) {
	r, err := Mapping{
		{Pattern: `^lib/(.*)$`, Target: "first/$1"},
		{Pattern: `^lib/util$`, Target: "second"},
	}.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got, ok := r.Rewrite("lib/util"); !ok || got != "first/util" {
		t.Errorf("Rewrite() = %q, %v, want %q, true", got, ok, "first/util")
	}
}

func TestMapping_Compile(t *testing.T) {
	tests := []struct {
		name    string
		m       Mapping
		wantErr bool
	}{
		{name: "empty", m: nil},
		{name: "valid", m: Mapping{{Pattern: `^a(.*)$`, Target: "b$1"}}},
		{name: "unbalanced group", m: Mapping{{Pattern: `^(a$`, Target: "b"}}, wantErr: true},
		{name: "bad entry after good", m: Mapping{{Pattern: `^a$`, Target: "b"}, {Pattern: `[`, Target: "c"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.m.Compile()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r == nil {
				t.Fatal("Compile() returned nil rewriter")
			}
		})
	}
}

func TestMatchers_ResolveImport(t *testing.T) {
	doc := Default()
	doc.PathAliases = Mapping{
		{Pattern: `^@/(.*)$`, Target: "/repo/src/$1"},
		{Pattern: `^@test/(.*)$`, Target: "/repo/tests/$1"},
	}
	m, err := doc.Matchers()
	if err != nil {
		t.Fatalf("Matchers() error = %v", err)
	}

	// Repeated calls reuse the compiled patterns.
	for i := 0; i < 3; i++ {
		if got, ok := m.ResolveImport("@test/setup"); !ok || got != "/repo/tests/setup" {
			t.Errorf("ResolveImport() = %q, %v, want %q, true", got, ok, "/repo/tests/setup")
		}
	}
	if got, ok := m.ResolveImport("lodash"); ok || got != "lodash" {
		t.Errorf("ResolveImport() = %q, %v, want %q, false", got, ok, "lodash")
	}

	doc.PathAliases = Mapping{{Pattern: `(`, Target: "x"}}
	if _, err := doc.Matchers(); err == nil {
		t.Error("Matchers() with a malformed alias should fail")
	}
}

func TestMapping_JSONRoundTripKeepsOrder(t *testing.T) {
	in := `{"^z$":"last-alpha","^a$":"first-alpha","^m$":"middle"}`

	var m Mapping
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := Mapping{
		{Pattern: "^z$", Target: "last-alpha"},
		{Pattern: "^a$", Target: "first-alpha"},
		{Pattern: "^m$", Target: "middle"},
	}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Unmarshal() = %v, want %v", m, want)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal() = %s, want %s", out, in)
	}
}

func TestMapping_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Mapping
		dups    []string
		wantErr bool
	}{
		{
			name: "duplicate keys kept",
			in:   `{"a":"1","a":"2"}`,
			want: Mapping{{Pattern: "a", Target: "1"}, {Pattern: "a", Target: "2"}},
			dups: []string{"a"},
		},
		{name: "null", in: `null`},
		{name: "array", in: `["a"]`, wantErr: true},
		{name: "non-string target", in: `{"a": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mapping
			err := json.Unmarshal([]byte(tt.in), &m)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(m, tt.want) {
				t.Errorf("Unmarshal() = %v, want %v", m, tt.want)
			}
			if got := m.Duplicates(); !reflect.DeepEqual(got, tt.dups) {
				t.Errorf("Duplicates() = %v, want %v", got, tt.dups)
			}
		})
	}
}

func TestMapping_YAML(t *testing.T) {
	var holder struct {
		Aliases Mapping `yaml:"aliases"`
	}
	src := "aliases:\n  \"^b$\": two\n  \"^a$\": one\n  \"^b$\": three\n"
	if err := yaml.Unmarshal([]byte(src), &holder); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := Mapping{
		{Pattern: "^b$", Target: "two"},
		{Pattern: "^a$", Target: "one"},
		{Pattern: "^b$", Target: "three"},
	}
	if !reflect.DeepEqual(holder.Aliases, want) {
		t.Errorf("Unmarshal() = %v, want %v", holder.Aliases, want)
	}
	if got := holder.Aliases.Duplicates(); !reflect.DeepEqual(got, []string{"^b$"}) {
		t.Errorf("Duplicates() = %v, want [^b$]", got)
	}
	if target, ok := holder.Aliases.Get("^b$"); !ok || target != "two" {
		t.Errorf("Get() = %q, %v, want %q, true", target, ok, "two")
	}

	ordered := Mapping{{Pattern: "^b$", Target: "x"}, {Pattern: "^a$", Target: "y"}}
	out, err := yaml.Marshal(ordered)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back Mapping
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(back, ordered) {
		t.Errorf("round trip = %v, want %v", back, ordered)
	}
}

func TestMapping_YAMLRejectsSequence(t *testing.T) {
	var m Mapping
	if err := yaml.Unmarshal([]byte("- a\n- b\n"), &m); err == nil {
		t.Error("Unmarshal() of a sequence should fail")
	}
}
