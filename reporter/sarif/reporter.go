package sarif

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Krantz-XRF/acyclic/detector"
	"github.com/Krantz-XRF/acyclic/refgraph"
)

// Version of acyclic (exported for build-time injection)
var Version = "0.3.0"

const schemaURI = "https://docs.oasis-open.org/sarif/sarif/v2.1.0/errata01/os/schemas/sarif-schema-2.1.0.json"

// Reporter builds and outputs SARIF documents
type Reporter struct {
	writer  io.Writer
	workDir string // Repository root for relative paths
	version string // Tool version
}

// NewReporter creates a SARIF reporter
func NewReporter(writer io.Writer, workDir string) *Reporter {
	return &Reporter{
		writer:  writer,
		workDir: workDir,
		version: Version, // Capture version at creation time
	}
}

// Report converts cycles to SARIF and writes to output
func (r *Reporter) Report(cycles []detector.Cycle) error {
	b := builder{workDir: r.workDir, version: r.version}
	return writeDocument(r.writer, b.document(cycles))
}

// builder converts cycles into a SARIF document
type builder struct {
	workDir string
	version string
}

// document creates a SARIF document from cycles
func (b builder) document(cycles []detector.Cycle) *Document {
	return &Document{
		Version: "2.1.0",
		Schema:  schemaURI,
		Runs: []Run{
			{
				Tool:              b.tool(),
				Results:           b.results(cycles),
				AutomationDetails: b.automationDetails(),
			},
		},
	}
}

// automationDetails creates automation details for the run
func (b builder) automationDetails() *AutomationDetails {
	return &AutomationDetails{
		ID: "acyclic/analysis",
	}
}

// tool creates the tool descriptor
func (b builder) tool() Tool {
	version := b.version
	if version == "" {
		version = "dev"
	}

	return Tool{
		Driver: Driver{
			Name:            "acyclic",
			FullName:        "acyclic Shared-Ownership Cycle Detector",
			InformationURI:  informationURI,
			Version:         version,
			SemanticVersion: version,
			Rules:           BuildRules(),
		},
	}
}

// results converts cycles to SARIF results
func (b builder) results(cycles []detector.Cycle) []Result {
	results := make([]Result, 0, len(cycles))
	for _, c := range cycles {
		if res, ok := b.result(c); ok {
			results = append(results, res)
		}
	}
	return results
}

// result converts a single cycle to a SARIF result. The first entry of the
// first link is the primary location; every entry becomes a related location.
func (b builder) result(c detector.Cycle) (Result, bool) {
	first, ok := c.First()
	if !ok {
		return Result{}, false
	}

	ruleID := ToSARIFRuleID(detector.RuleID)
	primary := b.location(first.Context.Location)

	var related []Location
	for _, l := range c.Links {
		for _, e := range l.Entries {
			loc := b.location(e.Context.Location)
			loc.ID = len(related) + 1
			loc.Message = &Message{
				Text: fmt.Sprintf("%s::%s in %s (references %s)", l.From, e.Field, e.Context.Function, l.To),
			}
			related = append(related, loc)
		}
	}

	return Result{
		RuleID: ruleID,
		Message: Message{
			Text: "circular reference detected: " + c.String(),
		},
		Locations:           []Location{primary},
		RelatedLocations:    related,
		Level:               "warning",
		PartialFingerprints: b.fingerprints(primary.PhysicalLocation.ArtifactLocation.URI, c.String(), ruleID),
	}, true
}

func (b builder) location(loc refgraph.Location) Location {
	return Location{
		PhysicalLocation: PhysicalLocation{
			ArtifactLocation: ArtifactLocation{
				URI:       b.relativePath(loc.File),
				URIBaseID: "%SRCROOT%",
			},
			Region: Region{
				StartLine:   loc.Line,
				StartColumn: loc.Column,
			},
		},
	}
}

// fingerprints generates stable fingerprints for result matching
func (b builder) fingerprints(filePath, chain, ruleID string) map[string]string {
	// The chain rather than the line identifies a cycle, so edits that move
	// code around keep the same fingerprint.
	fingerprint := fmt.Sprintf("%s:%s:%s", filePath, chain, ruleID)
	hash := sha256.Sum256([]byte(fingerprint))
	primaryLocationHash := fmt.Sprintf("%x", hash[:16]) // Use first 16 bytes

	return map[string]string{
		"primaryLocationLineHash": primaryLocationHash,
	}
}

// relativePath converts an absolute path to one relative to workDir.
// Paths that are already relative are only normalized.
func (b builder) relativePath(path string) string {
	if !filepath.IsAbs(path) || b.workDir == "" {
		return filepath.ToSlash(path)
	}
	relPath, err := filepath.Rel(b.workDir, path)
	if err != nil {
		// Fallback to absolute path if relative conversion fails
		return filepath.ToSlash(path)
	}

	// Normalize path separators for cross-platform compatibility
	return filepath.ToSlash(relPath)
}

// writeDocument serializes and writes SARIF JSON
func writeDocument(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ") // Pretty print
	return encoder.Encode(doc)
}
