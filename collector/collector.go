// Package collector builds a reference graph from a type-checked Go package.
//
// Collection runs in two phases:
//   - Phase 1 records every struct field whose type owns another named type
//   - Phase 2 walks function bodies and records each access to such a field
//
// A reference only enters the graph once a function touches the field, so a
// declared but unused field does not form part of a cycle.
package collector

import (
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/Krantz-XRF/acyclic/config"
	"github.com/Krantz-XRF/acyclic/refgraph"
	"github.com/Krantz-XRF/acyclic/sharedchecker"
)

// Result holds the graph of one package and the source positions behind
// each recorded location
type Result struct {
	Graph     *refgraph.Graph
	Positions map[refgraph.Location]token.Pos
}

// ownedField describes a field holding a reference to another type
type ownedField struct {
	owner  string
	target string
}

// Option configures a Collector
type Option func(*Collector)

// WithInspector reuses an inspector already built for the pass
func WithInspector(ins *inspector.Inspector) Option {
	return func(c *Collector) {
		c.inspector = ins
	}
}

// WithLogger sets the logger used for tracing collected references
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Collector gathers field references of a single package
type Collector struct {
	pass      *analysis.Pass
	matcher   *sharedchecker.Matcher
	inspector *inspector.Inspector
	logger    *slog.Logger

	fields map[*types.Var]*ownedField // nil entry: field known not to own
	result *Result
}

// New creates a Collector for pass using the wrapper types of cfg
func New(pass *analysis.Pass, cfg config.Config, opts ...Option) *Collector {
	c := &Collector{
		pass:    pass,
		matcher: sharedchecker.New(cfg.SharedTypes, cfg.FollowPointers),
		logger:  slog.New(slog.DiscardHandler),
		fields:  make(map[*types.Var]*ownedField),
		result: &Result{
			Graph:     refgraph.New(),
			Positions: make(map[refgraph.Location]token.Pos),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.inspector == nil {
		c.inspector = inspector.New(pass.Files)
	}
	return c
}

// Collect runs both phases and returns the populated graph
func (c *Collector) Collect() *Result {
	// Phase 1: struct declarations
	c.inspector.Preorder([]ast.Node{(*ast.TypeSpec)(nil)}, func(n ast.Node) {
		c.collectFromTypeSpec(n.(*ast.TypeSpec))
	})

	// Phase 2: field accesses inside functions
	c.inspector.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		c.collectFromFunction(n.(*ast.FuncDecl))
	})

	return c.result
}

// collectFromTypeSpec records owning fields of a struct declaration
func (c *Collector) collectFromTypeSpec(spec *ast.TypeSpec) {
	obj, ok := c.pass.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok {
		return
	}
	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return
	}

	for i := 0; i < st.NumFields(); i++ {
		c.record(st.Field(i), named)
	}
}

// record stores the ownership information of field declared in owner
func (c *Collector) record(field *types.Var, owner *types.Named) *ownedField {
	if f, ok := c.fields[field]; ok {
		return f
	}

	target, ok := c.matcher.Owned(field.Type())
	if !ok {
		c.fields[field] = nil
		return nil
	}

	f := &ownedField{
		owner:  c.typeName(owner),
		target: c.typeName(target),
	}
	c.fields[field] = f
	return f
}

// collectFromFunction records accesses to owning fields in one function
func (c *Collector) collectFromFunction(decl *ast.FuncDecl) {
	if decl.Body == nil {
		return
	}
	function := c.functionName(decl)

	ast.Inspect(decl.Body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.SelectorExpr:
			// Handle field access like p.child
			c.checkSelector(node, function)

		case *ast.CompositeLit:
			// Handle keyed struct literals like &Parent{child: c}
			c.checkCompositeLit(node, function)
		}
		return true
	})
}

func (c *Collector) checkSelector(sel *ast.SelectorExpr, function string) {
	selection, ok := c.pass.TypesInfo.Selections[sel]
	if !ok || selection.Kind() != types.FieldVal {
		return
	}
	field, ok := selection.Obj().(*types.Var)
	if !ok {
		return
	}

	f, known := c.fields[field]
	if !known {
		// Fields of imported or instantiated types: the declaring struct is
		// the receiver only for a direct (non-promoted) selection.
		if len(selection.Index()) != 1 {
			return
		}
		owner, ok := deref(selection.Recv())
		if !ok {
			return
		}
		f = c.record(field, owner)
	}
	if f == nil {
		return
	}

	c.add(f, field.Name(), function, sel.Sel.Pos())
}

func (c *Collector) checkCompositeLit(lit *ast.CompositeLit, function string) {
	tv, ok := c.pass.TypesInfo.Types[lit]
	if !ok {
		return
	}
	owner, ok := deref(tv.Type)
	if !ok {
		return
	}
	if _, ok := owner.Underlying().(*types.Struct); !ok {
		return
	}

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		field, ok := c.pass.TypesInfo.Uses[key].(*types.Var)
		if !ok || !field.IsField() {
			continue
		}
		if f := c.record(field, owner); f != nil {
			c.add(f, field.Name(), function, key.Pos())
		}
	}
}

// add inserts one observed reference into the graph
func (c *Collector) add(f *ownedField, field, function string, pos token.Pos) {
	p := c.pass.Fset.Position(pos)
	loc := refgraph.Location{File: p.Filename, Line: p.Line, Column: p.Column}

	c.result.Graph.AddReference(f.owner, f.target, field, refgraph.Context{
		Function: function,
		Location: loc,
	})
	if _, ok := c.result.Positions[loc]; !ok {
		c.result.Positions[loc] = pos
	}

	c.logger.Debug("reference",
		slog.String("from", f.owner),
		slog.String("to", f.target),
		slog.String("field", field),
		slog.String("function", function),
		slog.String("location", loc.String()))
}

// functionName returns "Recv.Method" for methods and the plain name otherwise
func (c *Collector) functionName(decl *ast.FuncDecl) string {
	name := decl.Name.Name
	fn, ok := c.pass.TypesInfo.Defs[decl.Name].(*types.Func)
	if !ok {
		return name
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return name
	}
	recv, ok := deref(sig.Recv().Type())
	if !ok {
		return name
	}
	return recv.Obj().Name() + "." + name
}

// typeName names a graph node. Types of the analyzed package use their bare
// name; others are qualified by package path.
func (c *Collector) typeName(named *types.Named) string {
	obj := named.Origin().Obj()
	if obj.Pkg() == nil || obj.Pkg() == c.pass.Pkg {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// deref strips pointers and aliases down to a named type
func deref(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	named, ok := t.(*types.Named)
	if !ok || named.Obj() == nil {
		return nil, false
	}
	return named, true
}
