package acyclic_test

import (
	"testing"

	"github.com/Krantz-XRF/acyclic"
	"golang.org/x/tools/go/analysis/analysistest"
)

func Test(t *testing.T) {
	testdata := analysistest.TestData()
	patterns := []string{
		"cycle",
		"crosspackage",
		"buildconstraint",
	}

	for _, pattern := range patterns {
		pattern := pattern
		t.Run(pattern, func(t *testing.T) {
			t.Parallel()
			analysistest.Run(t, testdata, acyclic.Analyzer, pattern)
		})
	}
}

func TestResult(t *testing.T) {
	testdata := analysistest.TestData()
	results := analysistest.Run(t, testdata, acyclic.Analyzer, "cycle")
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	rt, ok := results[0].Result.(*acyclic.ResultType)
	if !ok {
		t.Fatalf("result type = %T, want *acyclic.ResultType", results[0].Result)
	}

	var chains []string
	for _, c := range rt.Cycles {
		chains = append(chains, c.String())
	}
	want := []string{
		"Child -> Parent -> Child",
		"Doc -> Page -> Doc",
		"Folder -> Folder",
		"Node -> Node",
	}
	if len(chains) != len(want) {
		t.Fatalf("cycles = %v, want %v", chains, want)
	}
	for i := range want {
		if chains[i] != want[i] {
			t.Errorf("cycle[%d] = %q, want %q", i, chains[i], want[i])
		}
	}

	// Related information covers every entry of every link
	for _, c := range rt.Cycles {
		entries := 0
		for _, l := range c.Links {
			entries += len(l.Entries)
		}
		if entries == 0 {
			t.Errorf("cycle %s has no entries", c)
		}
	}
}

func TestPlugin(t *testing.T) {
	analyzers, err := acyclic.New(map[string]any{"config": ""})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(analyzers) != 1 || analyzers[0] != acyclic.Analyzer {
		t.Errorf("New() = %v, want the acyclic analyzer", analyzers)
	}

	if _, err := acyclic.New(map[string]any{"config": 42}); err == nil {
		t.Error("New() error = nil, want error for non-string config")
	}

	p := &acyclic.AnalyzerPlugin{}
	if got := p.GetAnalyzers(); len(got) != 1 || got[0].Name != "acyclic" {
		t.Errorf("GetAnalyzers() = %v", got)
	}
}
