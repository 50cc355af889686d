package sarif

import (
	"github.com/Krantz-XRF/acyclic/detector"
	"github.com/Krantz-XRF/acyclic/refgraph"
)

// twoTypeCycle builds the cycle Child -> Parent -> Child with one entry per link
func twoTypeCycle(file string) []detector.Cycle {
	g := refgraph.New()
	g.AddReference("Parent", "Child", "child", refgraph.Context{
		Function: "adopt",
		Location: refgraph.Location{File: file, Line: 12, Column: 5},
	})
	g.AddReference("Child", "Parent", "parent", refgraph.Context{
		Function: "attach",
		Location: refgraph.Location{File: file, Line: 30, Column: 9},
	})
	return detector.New(g).Detect()
}
