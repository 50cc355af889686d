package cpp

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("struct X {};\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir,
		"src/a.cpp",
		"src/b.h",
		"src/C.HPP",
		"src/gen/x_generated.h",
		"src/notes.txt",
		"build/c.cpp",
		".git/d.cpp",
		"third_party/lib/e.cc",
		"include/f.hxx",
		"module.cppm",
	)

	tests := []struct {
		name     string
		roots    []string
		exclude  []string
		expected []string
	}{
		{
			name:  "all sources",
			roots: []string{dir},
			expected: []string{
				"include/f.hxx",
				"module.cppm",
				"src/C.HPP",
				"src/a.cpp",
				"src/b.h",
				"src/gen/x_generated.h",
				"third_party/lib/e.cc",
			},
		},
		{
			name:    "excluded globs",
			roots:   []string{dir},
			exclude: []string{"third_party/**", "**/*_generated.h"},
			expected: []string{
				"include/f.hxx",
				"module.cppm",
				"src/C.HPP",
				"src/a.cpp",
				"src/b.h",
			},
		},
		{
			name:     "explicit files and overlapping roots",
			roots:    []string{filepath.Join(dir, "src", "notes.txt"), filepath.Join(dir, "include"), dir + "/include/"},
			expected: []string{"include/f.hxx", "src/notes.txt"},
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := Discover(context.Background(), tt.roots, tt.exclude)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}

			got := make([]string, 0, len(files))
			for _, f := range files {
				rel, err := filepath.Rel(dir, f)
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, filepath.ToSlash(rel))
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Discover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Discover(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, nil)
	if err == nil {
		t.Error("expected an error for a missing root")
	}
}
