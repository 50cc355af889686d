package acyclic_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/Krantz-XRF/acyclic"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
)

// BenchmarkSmallCodebase benchmarks the analyzer on a small codebase (~50 lines)
func BenchmarkSmallCodebase(b *testing.B) {
	src := `package main

type Shared[T any] struct{ p *T }

func Wrap[T any](v *T) Shared[T] { return Shared[T]{p: v} }

type Parent struct {
	Name  string
	child Shared[Child]
}

type Child struct {
	parent Shared[Parent]
}

func (p *Parent) Adopt(c *Child) {
	p.child = Wrap(c)
	c.parent = Wrap(p)
}

func main() {
	p := &Parent{Name: "root"}
	p.Adopt(&Child{})
}
`

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		runAnalyzerOnSource(b, src)
	}
}

// BenchmarkMediumCodebase benchmarks the analyzer on a medium codebase (~500 lines)
func BenchmarkMediumCodebase(b *testing.B) {
	src := generateCodebase(60)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		runAnalyzerOnSource(b, src)
	}
}

// BenchmarkLargeCodebase benchmarks the analyzer on a large codebase (~5000 lines)
func BenchmarkLargeCodebase(b *testing.B) {
	src := generateCodebase(600)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		runAnalyzerOnSource(b, src)
	}
}

func runAnalyzerOnSource(b *testing.B, src string) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "test.go", src, 0)
	if err != nil {
		b.Fatal(err)
	}

	// Create type checker
	config := &types.Config{
		Importer: nil, // No imports in generated sources
	}
	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	pkg, _ := config.Check("test", fset, []*ast.File{file}, info)

	// Create analysis pass
	pass := &analysis.Pass{
		Analyzer:          acyclic.Analyzer,
		Fset:              fset,
		Files:             []*ast.File{file},
		Pkg:               pkg,
		TypesInfo:         info,
		Report:            func(analysis.Diagnostic) {},
		ResultOf:          make(map[*analysis.Analyzer]interface{}),
		ImportObjectFact:  func(types.Object, analysis.Fact) bool { return false },
		ImportPackageFact: func(*types.Package, analysis.Fact) bool { return false },
		ExportObjectFact:  func(types.Object, analysis.Fact) {},
		ExportPackageFact: func(analysis.Fact) {},
		AllObjectFacts:    func() []analysis.ObjectFact { return nil },
		AllPackageFacts:   func() []analysis.PackageFact { return nil },
	}

	// Run inspect analyzer first
	inspectResult, err := inspect.Analyzer.Run(pass)
	if err != nil {
		b.Fatal(err)
	}
	pass.ResultOf[inspect.Analyzer] = inspectResult

	// Run our analyzer
	_, err = acyclic.Analyzer.Run(pass)
	if err != nil {
		b.Fatal(err)
	}
}

// generateCodebase builds n node types in rings of four: T0 -> T1 -> T2 ->
// T3 -> T0, each ring also reaching a shared leaf
func generateCodebase(n int) string {
	var sb strings.Builder
	sb.WriteString(`package main

type Shared[T any] struct{ p *T }

func Wrap[T any](v *T) Shared[T] { return Shared[T]{p: v} }

type Leaf struct{ value int }
`)

	for i := 0; i < n; i++ {
		next := i + 1
		if next%4 == 0 {
			next = i - 3
		}
		fmt.Fprintf(&sb, `
type T%d struct {
	id   int
	next Shared[T%d]
	leaf Shared[Leaf]
}

func (t *T%d) Link(n *T%d, l *Leaf) {
	t.next = Wrap(n)
	t.leaf = Wrap(l)
}
`, i, next, i, next)
	}

	sb.WriteString("\nfunc main() {}\n")
	return sb.String()
}
