package cpp

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Extensions are the file extensions treated as C++ sources
var Extensions = map[string]bool{
	".cpp": true, ".cc": true, ".cxx": true, ".c++": true,
	".h": true, ".hh": true, ".hpp": true, ".hxx": true, ".h++": true,
	".ixx": true, ".cppm": true,
}

// ignoredDirs are directory names skipped while walking
var ignoredDirs = map[string]bool{
	".cache": true, ".git": true, ".hg": true, ".idea": true, ".svn": true,
	".vs": true, ".vscode": true, "build": true, "cmake-build-debug": true,
	"cmake-build-release": true, "node_modules": true, "out": true,
}

// Discover returns the C++ sources under roots, sorted and without
// duplicates. Files named explicitly are kept regardless of extension.
// exclude holds doublestar patterns matched against the slash-separated path
// relative to its root and against the path as given.
func Discover(ctx context.Context, roots []string, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				return walkErr
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if rel != "." && excluded(exclude, filepath.ToSlash(rel), filepath.ToSlash(path)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && ignoredDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if Extensions[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// excluded checks if any pattern matches one of the candidate paths
func excluded(patterns []string, paths ...string) bool {
	for _, pattern := range patterns {
		for _, p := range paths {
			if ok, err := doublestar.Match(pattern, p); err == nil && ok {
				return true
			}
		}
	}
	return false
}
