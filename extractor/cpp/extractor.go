// Package cpp extracts shared-ownership references from C++ sources.
//
// Sources are parsed with tree-sitter. Extraction runs in two phases:
//   - Phase 1 parses every file concurrently and records each class with
//     its fields and base classes
//   - Phase 2 walks every function definition and resolves member accesses
//     (this->f, obj.f, ptr->f, chained accesses and bare member names inside
//     methods) against the merged class table
//
// Resolution is structural: no preprocessing, overload resolution or
// template instantiation takes place, and type names are unqualified.
package cpp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Krantz-XRF/acyclic/comparator"
	"github.com/Krantz-XRF/acyclic/config"
	"github.com/Krantz-XRF/acyclic/refgraph"
)

// maxFileSize bounds the size of a single parsed file (10MB)
const maxFileSize = 10 * 1024 * 1024

// Source is one file to extract from
type Source struct {
	Path    string
	Content []byte // read from Path when nil
}

// Reference is one observed access to a field owning another type
type Reference struct {
	From    string
	To      string
	Field   string
	Context refgraph.Context
}

// Populate inserts refs into g in order
func Populate(g *refgraph.Graph, refs []Reference) {
	for _, r := range refs {
		g.AddReference(r.From, r.To, r.Field, r.Context)
	}
}

// Option configures an Extractor
type Option func(*Extractor)

// WithWrappers sets the shared-ownership wrapper templates. Entries without
// "::" match the unqualified template name.
func WithWrappers(wrappers []string) Option {
	return func(e *Extractor) {
		if len(wrappers) > 0 {
			e.wrappers = slices.Clone(wrappers)
		}
	}
}

// WithJobs bounds the number of files processed concurrently
func WithJobs(jobs int) Option {
	return func(e *Extractor) {
		if jobs > 0 {
			e.jobs = jobs
		}
	}
}

// WithBaseDir makes reported file paths relative to dir
func WithBaseDir(dir string) Option {
	return func(e *Extractor) {
		e.baseDir = dir
	}
}

// WithLogger sets the logger used for tracing extraction
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Extractor turns C++ sources into references. It is safe for concurrent use.
type Extractor struct {
	wrappers []string
	jobs     int
	baseDir  string
	logger   *slog.Logger
}

// New creates an Extractor
func New(opts ...Option) *Extractor {
	e := &Extractor{
		wrappers: slices.Clone(config.DefaultSharedTypes),
		jobs:     runtime.GOMAXPROCS(0),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads and extracts the files at paths
func (e *Extractor) Extract(ctx context.Context, paths []string) ([]Reference, error) {
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = Source{Path: p}
	}
	return e.ExtractSources(ctx, sources)
}

// ExtractSources extracts references from sources. The result is sorted by
// from, to, field, location and function, independent of the input order.
func (e *Extractor) ExtractSources(ctx context.Context, sources []Source) ([]Reference, error) {
	units := make([]*unit, len(sources))
	defer func() {
		for _, u := range units {
			if u != nil {
				u.close()
			}
		}
	}()

	// Phase 1: parse and collect classes
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, src := range sources {
		g.Go(func() error {
			u, err := e.parse(gctx, src)
			if err != nil {
				return err
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	classes := e.mergeClasses(units)

	// Phase 2: resolve member accesses
	perUnit := make([][]Reference, len(units))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, u := range units {
		if u == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := &resolver{unit: u, classes: classes, wrappers: e.wrappers}
			perUnit[i] = r.references()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var refs []Reference
	for _, rs := range perUnit {
		refs = append(refs, rs...)
	}
	SortReferences(refs)

	for _, r := range refs {
		e.logger.Debug("reference",
			slog.String("from", r.From),
			slog.String("to", r.To),
			slog.String("field", r.Field),
			slog.String("function", r.Context.Function),
			slog.String("location", r.Context.Location.String()))
	}
	return refs, nil
}

// parse reads and parses one source, returning nil for skipped files
func (e *Extractor) parse(ctx context.Context, src Source) (*unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := src.Content
	if content == nil {
		info, err := os.Stat(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", src.Path, err)
		}
		if info.Size() > maxFileSize {
			e.logger.Warn("skipping large file",
				slog.String("path", src.Path),
				slog.Int64("size", info.Size()))
			return nil, nil
		}
		content, err = os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src.Path, err)
		}
	}

	u, err := parseUnit(ctx, e.displayPath(src.Path), content, e.wrappers)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", src.Path, err)
	}

	e.logger.Debug("parsed",
		slog.String("path", u.path),
		slog.Int("classes", len(u.classes)),
		slog.Int("functions", len(u.funcs)),
		slog.Bool("errors", u.tree.RootNode().HasError()))
	return u, nil
}

// mergeClasses builds the class table; the first definition in source
// order wins
func (e *Extractor) mergeClasses(units []*unit) map[string]*class {
	classes := make(map[string]*class)
	for _, u := range units {
		if u == nil {
			continue
		}
		for _, c := range u.classes {
			if prev, ok := classes[c.name]; ok {
				e.logger.Debug("duplicate class definition",
					slog.String("class", c.name),
					slog.String("kept", prev.path),
					slog.String("ignored", u.path))
				continue
			}
			classes[c.name] = c
		}
	}
	return classes
}

// displayPath renders path relative to the base directory when possible
func (e *Extractor) displayPath(path string) string {
	if e.baseDir == "" {
		return filepath.ToSlash(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	base, err := filepath.Abs(e.baseDir)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// CompareReferences orders references by from, to, field, location and function
func CompareReferences(l, r Reference) comparator.Ord {
	return comparator.Begin().
		Next(comparator.By(l.From, r.From)).
		Next(comparator.By(l.To, r.To)).
		Next(comparator.By(l.Field, r.Field)).
		Next(func() comparator.Ord { return refgraph.CompareLocations(l.Context.Location, r.Context.Location) }).
		Next(comparator.By(l.Context.Function, r.Context.Function)).
		End()
}

// SortReferences sorts refs in place
func SortReferences(refs []Reference) {
	slices.SortFunc(refs, func(l, r Reference) int {
		return int(CompareReferences(l, r))
	})
}
