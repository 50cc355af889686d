// Package exporter loads reference graphs and detected cycles into Neo4j
// for interactive exploration.
package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Krantz-XRF/acyclic/detector"
	"github.com/Krantz-XRF/acyclic/refgraph"
)

// defaultBatchSize bounds the rows sent in a single UNWIND statement
const defaultBatchSize = 1000

// Executor runs one Cypher statement
type Executor interface {
	Execute(ctx context.Context, cypher string, params map[string]any) error
}

// driverExecutor runs statements through a Neo4j driver
type driverExecutor struct {
	driver neo4j.DriverWithContext
}

func (d driverExecutor) Execute(ctx context.Context, cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, d.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// Option configures a Neo4jLoader
type Option func(*Neo4jLoader)

// WithBatchSize sets the number of rows per statement
func WithBatchSize(n int) Option {
	return func(l *Neo4jLoader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithRunID tags loaded data with id instead of a fresh uuid
func WithRunID(id string) Option {
	return func(l *Neo4jLoader) {
		if id != "" {
			l.runID = id
		}
	}
}

// WithLogger sets the logger used for progress messages
func WithLogger(logger *slog.Logger) Option {
	return func(l *Neo4jLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Neo4jLoader loads reference graphs into a Neo4j database using batched
// UNWIND queries. Types become :CxxType nodes and every observed reference a
// :HOLDS relationship.
type Neo4jLoader struct {
	exec      Executor
	driver    neo4j.DriverWithContext
	batchSize int
	runID     string
	logger    *slog.Logger
}

// NewNeo4jLoader connects to Neo4j and returns a ready-to-use loader
func NewNeo4jLoader(ctx context.Context, uri, user, password string, opts ...Option) (*Neo4jLoader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to %s: %w", uri, err)
	}

	l := NewLoader(driverExecutor{driver: driver}, opts...)
	l.driver = driver
	return l, nil
}

// NewLoader returns a loader running its statements through exec
func NewLoader(exec Executor, opts ...Option) *Neo4jLoader {
	l := &Neo4jLoader{
		exec:      exec,
		batchSize: defaultBatchSize,
		runID:     uuid.NewString(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RunID identifies the data written by this loader
func (l *Neo4jLoader) RunID() string {
	return l.runID
}

// Close releases the underlying driver, if any
func (l *Neo4jLoader) Close(ctx context.Context) error {
	if l.driver == nil {
		return nil
	}
	return l.driver.Close(ctx)
}

// CreateIndexes ensures the required indexes exist
func (l *Neo4jLoader) CreateIndexes(ctx context.Context) error {
	l.logger.Info("creating indexes")
	indexes := []string{
		"CREATE INDEX cxx_type_name IF NOT EXISTS FOR (n:CxxType) ON (n.name)",
		"CREATE INDEX cxx_type_run IF NOT EXISTS FOR (n:CxxType) ON (n.run)",
	}
	for _, q := range indexes {
		if err := l.exec.Execute(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// CleanGraph removes all previously loaded types and references
func (l *Neo4jLoader) CleanGraph(ctx context.Context) error {
	l.logger.Info("cleaning existing graph data")
	queries := []string{
		"MATCH ()-[r:HOLDS]->() DELETE r",
		"MATCH (n:CxxType) DETACH DELETE n",
	}
	for _, q := range queries {
		if err := l.exec.Execute(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to clean graph: %w", err)
		}
	}
	return nil
}

// LoadTypes upserts one :CxxType node per type in g
func (l *Neo4jLoader) LoadTypes(ctx context.Context, g *refgraph.Graph) error {
	rows := typeRows(g)
	l.logger.Info("loading types", slog.Int("count", len(rows)))
	return l.batched(ctx,
		`UNWIND $batch AS row
		 MERGE (n:CxxType {name: row.name})
		 SET n.run = $run, n.cycles = []`,
		rows)
}

// LoadReferences upserts one :HOLDS relationship per observed entry in g
func (l *Neo4jLoader) LoadReferences(ctx context.Context, g *refgraph.Graph) error {
	rows := referenceRows(g)
	l.logger.Info("loading references", slog.Int("count", len(rows)))
	return l.batched(ctx,
		`UNWIND $batch AS row
		 MERGE (a:CxxType {name: row.from})
		 MERGE (b:CxxType {name: row.to})
		 MERGE (a)-[r:HOLDS {field: row.field, function: row.function,
		                     file: row.file, line: row.line, column: row.column}]->(b)
		 SET r.run = $run`,
		rows)
}

// LoadCycles appends every cycle chain to the cycles list of its members
func (l *Neo4jLoader) LoadCycles(ctx context.Context, cycles []detector.Cycle) error {
	rows := cycleRows(cycles)
	l.logger.Info("loading cycles", slog.Int("count", len(cycles)))
	return l.batched(ctx,
		`UNWIND $batch AS row
		 MATCH (n:CxxType {name: row.name})
		 SET n.cycles = coalesce(n.cycles, []) + row.chain, n.run = $run`,
		rows)
}

// batched runs cypher once per chunk of rows
func (l *Neo4jLoader) batched(ctx context.Context, cypher string, rows []map[string]any) error {
	for _, chunk := range chunks(rows, l.batchSize) {
		params := map[string]any{"batch": chunk, "run": l.runID}
		if err := l.exec.Execute(ctx, cypher, params); err != nil {
			return fmt.Errorf("failed to load batch of %d rows: %w", len(chunk), err)
		}
	}
	return nil
}

func chunks(rows []map[string]any, size int) [][]map[string]any {
	var out [][]map[string]any
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}

func typeRows(g *refgraph.Graph) []map[string]any {
	types := g.Types()
	rows := make([]map[string]any, 0, len(types))
	for _, name := range types {
		rows = append(rows, map[string]any{"name": name})
	}
	return rows
}

func referenceRows(g *refgraph.Graph) []map[string]any {
	rows := make([]map[string]any, 0, g.EdgeCount())
	for _, from := range g.IDs() {
		for _, to := range g.Successors(from) {
			bag, _ := g.Bag(from, to)
			entries := make([]refgraph.Entry, len(bag))
			copy(entries, bag)
			refgraph.SortEntries(entries)
			for _, e := range entries {
				rows = append(rows, map[string]any{
					"from":     g.Name(from),
					"to":       g.Name(to),
					"field":    e.Field,
					"function": e.Context.Function,
					"file":     e.Context.Location.File,
					"line":     e.Context.Location.Line,
					"column":   e.Context.Location.Column,
				})
			}
		}
	}
	return rows
}

func cycleRows(cycles []detector.Cycle) []map[string]any {
	var rows []map[string]any
	for _, c := range cycles {
		chain := c.String()
		// the last element repeats the first
		for _, name := range c.Chain[:max(len(c.Chain)-1, 0)] {
			rows = append(rows, map[string]any{"name": name, "chain": chain})
		}
	}
	return rows
}
