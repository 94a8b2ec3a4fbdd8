package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/runcfg/internal/config"
)

// run executes the command tree with an empty environment and returns what
// it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(config.MapLookup(nil))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 3, ExitCode(fmt.Errorf("wrapped: %w", &exitError{code: 3})))
}

func TestRootCmd_Help(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	for _, name := range []string{"show", "validate", "get", "schema", "export", "watch", "discover", "check-coverage"} {
		assert.Contains(t, out, name)
	}
}

func TestShow(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, "--root-dir", root, "show", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "node", gjson.Get(out, "environment").String())
	assert.Equal(t, root, gjson.Get(out, "rootDir").String())
	assert.False(t, gjson.Get(out, "failFast").Bool())

	out, err = run(t, "--root-dir", root, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration")
	assert.Contains(t, out, filepath.Join(root, "src")+"/$1")

	_, err = run(t, "show", "--format", "xml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--root-dir", dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration is valid (built-in defaults)")

	good := writeFile(t, dir, "good.yaml", "reporters: [text, tap]\n")
	out, err = run(t, "--root-dir", dir, "--config", good, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "tap")
	assert.Contains(t, out, "configuration is valid ("+good+")")

	bad := writeFile(t, dir, "bad.yaml", `
testFileGlobs: ["", "**/*.test.js"]
coverageThresholds:
  ./src/core/:
    statements: 101
`)
	out, err = run(t, "--root-dir", dir, "--config", bad, "validate")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out, "[malformed-pattern] testFileGlobs[0]")
	assert.Contains(t, out, "[missing-scope]")
	assert.Contains(t, out, "[threshold-out-of-range]")
}

func TestGet(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, "--root-dir", root, "get",
		"$.coverageThresholds.global.statements",
		`$.coverageThresholds["./src/core/"].lines`,
		"$.reporters[0]")
	require.NoError(t, err)
	assert.Equal(t, "80\n90\ntext\n", out)

	_, err = run(t, "--root-dir", root, "get", "$.nope")
	assert.Error(t, err)

	_, err = run(t, "get")
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)
	assert.True(t, gjson.Valid(out))
	assert.Equal(t, "object", gjson.Get(out, "type").String())
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolved.yaml")

	_, err := run(t, "--root-dir", dir, "export", "-o", path)
	require.NoError(t, err)

	fc, err := config.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, fc.Environment)
	assert.Equal(t, "node", *fc.Environment)

	out, err := run(t, "--root-dir", dir, "export", "-o", "-", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "50%", gjson.Get(out, "workerConcurrency").String())

	_, err = run(t, "export")
	assert.Error(t, err, "--output is required")

	_, err = run(t, "export", "-o", "-", "--format", "toml")
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.test.js", "")
	writeFile(t, root, "src/b.js", "")
	writeFile(t, root, "dist/c.test.js", "")
	writeFile(t, root, "src/__tests__/d.ts", "")

	out, err := run(t, "--root-dir", root, "discover")
	require.NoError(t, err)
	assert.Equal(t, "src/__tests__/d.ts\nsrc/a.test.js\n", out)

	out, err = run(t, "--root-dir", t.TempDir(), "discover", root, "--count")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func coverageSummary(root string, files map[string]int) string {
	var entries []string
	metrics := func(covered int) string {
		return fmt.Sprintf(`{"lines":{"total":100,"covered":%[1]d},"statements":{"total":100,"covered":%[1]d},"functions":{"total":100,"covered":%[1]d},"branches":{"total":100,"covered":%[1]d}}`, covered)
	}
	total := 0
	for name, covered := range files {
		entries = append(entries, fmt.Sprintf("%q: %s", filepath.ToSlash(filepath.Join(root, name)), metrics(covered)))
		total += covered
	}
	entries = append(entries, fmt.Sprintf(`"total": %s`, metrics(total/len(files))))
	return "{" + strings.Join(entries, ",") + "}"
}

func TestCheckCoverage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "coverage/coverage-summary.json", coverageSummary(root, map[string]int{
		"src/app.js":           85,
		"src/core/engine.js":   95,
		"src/security/auth.js": 90,
	}))

	out, err := run(t, "--root-dir", root, "check-coverage", "--list-files")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out, "./src/security/: lines coverage 90.00% does not meet threshold 95.00%")
	assert.Contains(t, out, "Line coverage across 3 files")

	cfg := writeFile(t, root, "runcfg.yaml", `
coverageThresholds:
  global: {statements: 80, branches: 80, functions: 80, lines: 80}
`)
	out, err = run(t, "--root-dir", root, "--config", cfg, "check-coverage", "--format", "json")
	require.NoError(t, err)
	assert.True(t, gjson.Get(out, "passed").Bool())
	assert.Equal(t, int64(3), gjson.Get(out, "scopes.0.files").Int())

	_, err = run(t, "--root-dir", root, "check-coverage", "--summary", filepath.Join(root, "missing.json"))
	assert.Error(t, err)
}

func TestCheckCoverage_MissingScope(t *testing.T) {
	root := t.TempDir()
	summary := writeFile(t, root, "report.json", coverageSummary(root, map[string]int{"src/app.js": 100}))

	out, err := run(t, "--root-dir", root, "check-coverage", "--summary", summary)
	require.Error(t, err)
	assert.Contains(t, out, "./src/core/ no coverage data")
	assert.Contains(t, out, "./src/security/ no coverage data")
}

func TestWatch_RequiresConfig(t *testing.T) {
	_, err := run(t, "watch")
	assert.EqualError(t, err, "watch requires --config")
}

func TestDefaultSummaryPath(t *testing.T) {
	doc := config.Default()
	doc.RootDir = "/repo"
	assert.Equal(t, filepath.Join("/repo", "coverage", "coverage-summary.json"), defaultSummaryPath(doc))

	doc.CoverageDirectory = "/tmp/cov"
	assert.Equal(t, filepath.Join("/tmp/cov", "coverage-summary.json"), defaultSummaryPath(doc))
}
