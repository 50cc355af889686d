package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Krantz-XRF/acyclic/detector"
	"github.com/Krantz-XRF/acyclic/refgraph"
	"github.com/Krantz-XRF/acyclic/reporter/sarif"
	"github.com/Krantz-XRF/acyclic/reporter/text"
)

func selfCycle() []detector.Cycle {
	g := refgraph.New()
	g.AddReference("Node", "Node", "next", refgraph.Context{
		Function: "Node::append",
		Location: refgraph.Location{File: "list.cpp", Line: 4, Column: 2},
	})
	return detector.New(g).Detect()
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
		check   func(t *testing.T, r Reporter)
	}{
		{
			name:   "empty format defaults to text",
			config: Config{},
			check: func(t *testing.T, r Reporter) {
				if _, ok := r.(*text.Reporter); !ok {
					t.Errorf("New() = %T, want *text.Reporter", r)
				}
			},
		},
		{
			name:   "text format",
			config: Config{Format: FormatText},
			check: func(t *testing.T, r Reporter) {
				if _, ok := r.(*text.Reporter); !ok {
					t.Errorf("New() = %T, want *text.Reporter", r)
				}
			},
		},
		{
			name:   "sarif format",
			config: Config{Format: FormatSARIF, WorkDir: "/tmp"},
			check: func(t *testing.T, r Reporter) {
				if _, ok := r.(*sarif.Reporter); !ok {
					t.Errorf("New() = %T, want *sarif.Reporter", r)
				}
			},
		},
		{
			name:    "unsupported format",
			config:  Config{Format: "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New(&bytes.Buffer{}, tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestNew_WritesToGivenWriter(t *testing.T) {
	t.Parallel()

	var textOut, sarifOut bytes.Buffer

	r, err := New(&textOut, Config{Format: FormatText})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := r.Report(selfCycle()); err != nil {
		t.Fatalf("Report() failed: %v", err)
	}
	if !strings.HasPrefix(textOut.String(), "acyclic: warning: circular reference detected: Node -> Node\n") {
		t.Errorf("unexpected text output: %q", textOut.String())
	}

	r, err = New(&sarifOut, Config{Format: FormatSARIF})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := r.Report(selfCycle()); err != nil {
		t.Fatalf("Report() failed: %v", err)
	}
	var doc sarif.Document
	if err := json.Unmarshal(sarifOut.Bytes(), &doc); err != nil {
		t.Fatalf("invalid SARIF output: %v", err)
	}
	if n := len(doc.Runs[0].Results); n != 1 {
		t.Errorf("results count = %d, want 1", n)
	}
}
