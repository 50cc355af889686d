package acyclic

import (
	"fmt"
	"reflect"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/Krantz-XRF/acyclic/collector"
	"github.com/Krantz-XRF/acyclic/config"
	"github.com/Krantz-XRF/acyclic/detector"
)

const Doc = `acyclic detects retain cycles formed by shared-ownership fields.

It reports a cycle when struct fields holding reference-counted wrapper types
(Shared[T], Rc[T] or any type configured in .acyclic.yaml) lead from a type
back to itself. Such objects keep each other alive and are never released.

Example:
	type Parent struct {
		child Shared[Child]
	}

	type Child struct {
		parent Shared[Parent] // NG: Parent -> Child -> Parent
	}
`

var Analyzer = &analysis.Analyzer{
	Name:       "acyclic",
	Doc:        Doc,
	Run:        run,
	Requires:   []*analysis.Analyzer{inspect.Analyzer},
	ResultType: reflect.TypeOf((*ResultType)(nil)),
}

// configPath is the -config flag of the analyzer
var configPath string

func init() {
	Analyzer.Flags.StringVar(&configPath, "config", "", "path to the configuration file (default: .acyclic.yaml in the working directory)")
}

// ResultType is the result of the analyzer for one package
type ResultType struct {
	Cycles []detector.Cycle
}

func run(pass *analysis.Pass) (interface{}, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var opts []collector.Option
	if ins, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector); ok {
		opts = append(opts, collector.WithInspector(ins))
	}

	// Step 1: Collect references from struct fields and their accesses
	res := collector.New(pass, cfg, opts...).Collect()

	// Step 2: Find cycles
	cycles := detector.New(res.Graph).Detect()

	// Step 3: Report one diagnostic per cycle
	for _, c := range cycles {
		report(pass, res, c)
	}

	return &ResultType{Cycles: cycles}, nil
}

// report anchors the diagnostic at the first entry of the cycle and attaches
// every entry of every link as related information
func report(pass *analysis.Pass, res *collector.Result, c detector.Cycle) {
	first, ok := c.First()
	if !ok {
		return
	}

	var related []analysis.RelatedInformation
	for _, l := range c.Links {
		for _, e := range l.Entries {
			related = append(related, analysis.RelatedInformation{
				Pos:     res.Positions[e.Context.Location],
				Message: fmt.Sprintf("%s::%s in %s references %s", l.From, e.Field, e.Context.Function, l.To),
			})
		}
	}

	pass.Report(analysis.Diagnostic{
		Pos:      res.Positions[first.Context.Location],
		Category: detector.RuleID,
		Message:  "circular reference detected: " + c.String(),
		Related:  related,
	})
}
