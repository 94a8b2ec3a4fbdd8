// Package discover lists the test files under a directory tree.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/wesleyorama2/runcfg/internal/config"
	"github.com/wesleyorama2/runcfg/internal/log"
)

// Matcher decides which paths are test files. *config.Matchers satisfies it.
type Matcher interface {
	IsTestFile(path string) bool
	IsIgnored(path string) bool
}

// TestFiles walks root and returns the slash-separated paths, relative to
// root, of every test file, sorted. Directories matching an ignore pattern
// are not descended into. The walk stops early when ctx is cancelled.
func TestFiles(ctx context.Context, root string, m Matcher) ([]string, error) {
	logger := log.WithComponent("discover")

	var files []string
	skipped := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" || m.IsIgnored(rel+"/") {
				skipped++
				return filepath.SkipDir
			}
			return nil
		}
		if m.IsTestFile(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover test files in %s: %w", root, err)
	}

	sort.Strings(files)
	logger.Debug().
		Str("root", root).
		Int("files", len(files)).
		Int("skipped_dirs", skipped).
		Msg("discovery complete")
	return files, nil
}

// Document discovers test files under the document's root directory.
func Document(ctx context.Context, doc *config.Document) ([]string, error) {
	m, err := doc.Matchers()
	if err != nil {
		return nil, err
	}
	return TestFiles(ctx, doc.RootDir, m)
}
