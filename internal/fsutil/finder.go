// Package fsutil provides config-file discovery for the boundary layer.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches files with the dialect's conventional extension,
// recursively under the base directory.
const DefaultPattern = "**/*.gocd.yaml"

// FindConfigFiles recursively searches the given root path for files
// matching the ant-style glob pattern, case-insensitively, so that
// Pipe.GoCD.YAML is found by the default pattern. The returned paths are
// relative to the root, slash-separated and sorted lexically, which fixes
// the order files enter a collection and keeps error attribution
// reproducible across runs.
func FindConfigFiles(rootPath string, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ok, err := doublestar.Match(pattern, strings.ToLower(rel))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
