package sarif

import (
	"io"

	"github.com/Krantz-XRF/acyclic/detector"
)

// AggregatingReporter collects cycles from multiple packages and builds a single SARIF document
type AggregatingReporter struct {
	workDir string
	cycles  []detector.Cycle
	version string // Tool version
}

// NewAggregatingReporter creates a new aggregating reporter for multi-package analysis
func NewAggregatingReporter(workDir string) *AggregatingReporter {
	return &AggregatingReporter{
		workDir: workDir,
		cycles:  []detector.Cycle{},
		version: Version, // Capture version at creation time
	}
}

// AddCycles adds cycles from a single package analysis
func (r *AggregatingReporter) AddCycles(cycles []detector.Cycle) {
	r.cycles = append(r.cycles, cycles...)
}

// Report builds and writes a single SARIF document containing all collected cycles
func (r *AggregatingReporter) Report(writer io.Writer) error {
	b := builder{workDir: r.workDir, version: r.version}
	return writeDocument(writer, b.document(r.cycles))
}
