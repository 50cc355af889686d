package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/Krantz-XRF/acyclic/config"
	"github.com/Krantz-XRF/acyclic/detector"
	"github.com/Krantz-XRF/acyclic/exporter"
	"github.com/Krantz-XRF/acyclic/extractor/cpp"
	"github.com/Krantz-XRF/acyclic/refgraph"
	"github.com/Krantz-XRF/acyclic/reporter"
)

func run(ctx context.Context, o *options, paths []string, stdout, stderr io.Writer) error {
	level, err := parseVerbosity(o.verbose)
	if err != nil {
		return err
	}
	color, err := colorEnabled(o.color, stdout)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, level)

	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	// Step 1: Find sources
	files, err := cpp.Discover(ctx, paths, cfg.Exclude)
	if err != nil {
		return err
	}
	logger.Debug("discovered sources", slog.Int("files", len(files)))

	// Step 2: Extract references and build the graph
	ex := cpp.New(
		cpp.WithWrappers(cfg.SharedTypes),
		cpp.WithJobs(o.jobs),
		cpp.WithBaseDir(workDir),
		cpp.WithLogger(logger),
	)
	refs, err := ex.Extract(ctx, files)
	if err != nil {
		return err
	}
	g := refgraph.New()
	cpp.Populate(g, refs)
	logger.Debug("built reference graph",
		slog.Int("types", g.Len()),
		slog.Int("references", g.EdgeCount()))

	// Step 3: Find cycles
	cycles := detector.New(g, detector.WithLogger(logger)).Detect()

	// Step 4: Report
	rep, err := reporter.New(stdout, reporter.Config{
		Format:  reporter.Format(o.format),
		WorkDir: workDir,
		Level:   level,
		Color:   color,
	})
	if err != nil {
		return err
	}
	if err := rep.Report(cycles); err != nil {
		return err
	}

	if o.neo4jURI != "" {
		if err := export(ctx, o, g, cycles, logger); err != nil {
			return err
		}
	}

	if len(cycles) > 0 {
		return errCyclesFound
	}
	return nil
}

// export loads the graph and its cycles into Neo4j
func export(ctx context.Context, o *options, g *refgraph.Graph, cycles []detector.Cycle, logger *slog.Logger) error {
	loader, err := exporter.NewNeo4jLoader(ctx, o.neo4jURI, o.neo4jUser, o.neo4jPass, exporter.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := loader.Close(ctx); err != nil {
			logger.Warn("failed to close neo4j driver", slog.Any("error", err))
		}
	}()

	if o.clean {
		if err := loader.CleanGraph(ctx); err != nil {
			return err
		}
	}
	if err := loader.CreateIndexes(ctx); err != nil {
		return err
	}
	if err := loader.LoadTypes(ctx, g); err != nil {
		return err
	}
	if err := loader.LoadReferences(ctx, g); err != nil {
		return err
	}
	if err := loader.LoadCycles(ctx, cycles); err != nil {
		return err
	}

	logger.Info("exported graph",
		slog.String("uri", o.neo4jURI),
		slog.String("run", loader.RunID()))
	return nil
}

// colorEnabled resolves the --color flag against the output writer
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("invalid color mode %q: must be auto, always or never", mode)
	}
}
