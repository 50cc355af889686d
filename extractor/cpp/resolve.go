package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Krantz-XRF/acyclic/refgraph"
)

// resolver resolves member accesses in the function definitions of one unit
type resolver struct {
	unit     *unit
	classes  map[string]*class
	wrappers []string
}

// scope holds parameters and locals of the function being resolved.
// vars is a stack of blocks; the innermost block is last.
type scope struct {
	class    string
	function string
	vars     []map[string]declType
	refs     []Reference
}

func (s *scope) push() {
	s.vars = append(s.vars, make(map[string]declType))
}

func (s *scope) pop() {
	s.vars = s.vars[:len(s.vars)-1]
}

// define declares name in the innermost block
func (s *scope) define(name string, dt declType) {
	s.vars[len(s.vars)-1][name] = dt
}

// local finds name in the innermost block declaring it
func (s *scope) local(name string) (declType, bool) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if dt, ok := s.vars[i][name]; ok {
			return dt, true
		}
	}
	return declType{}, false
}

// references returns every reference observed in the unit, in source order
func (r *resolver) references() []Reference {
	var refs []Reference
	for _, f := range r.unit.funcs {
		refs = append(refs, r.function(f)...)
	}
	return refs
}

func (r *resolver) function(f funcNode) []Reference {
	fd := functionDeclarator(f.node.ChildByFieldName("declarator"))
	if fd == nil {
		return nil
	}

	name, class := r.functionName(fd.ChildByFieldName("declarator"))
	if class == "" {
		class = f.class
	}
	s := &scope{
		class:    class,
		function: name,
	}
	s.push()
	if class != "" {
		s.function = class + "::" + name
	}

	if params := fd.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			r.declare(s, params.NamedChild(i))
		}
	}

	for i := 0; i < int(f.node.NamedChildCount()); i++ {
		child := f.node.NamedChild(i)
		if child.Type() == "field_initializer_list" {
			r.initializers(s, child)
		}
	}

	if body := f.node.ChildByFieldName("body"); body != nil {
		r.walk(s, body)
	}
	return s.refs
}

// functionDeclarator unwraps pointer and reference declarators around the
// function declarator of a definition
func functionDeclarator(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "function_declarator":
			return n
		case "reference_declarator", "parenthesized_declarator":
			n = n.NamedChild(0)
		default:
			n = n.ChildByFieldName("declarator")
		}
	}
	return nil
}

// functionName splits a possibly qualified function name into its last
// segment and the class it is defined in, if known
func (r *resolver) functionName(n *sitter.Node) (name, class string) {
	src := r.unit.src
	for n != nil && n.Type() == "qualified_identifier" {
		if sc := n.ChildByFieldName("scope"); sc != nil {
			if c := simpleName(sc, src); r.classes[c] != nil {
				class = c
			}
		}
		n = n.ChildByFieldName("name")
	}
	if n == nil {
		return "", class
	}
	return compact(n.Content(src)), class
}

// declare adds a parameter or local declaration to the scope
func (r *resolver) declare(s *scope, decl *sitter.Node) {
	typ := decl.ChildByFieldName("type")
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		d := decl.NamedChild(i)
		if !declaratorKinds[d.Type()] {
			continue
		}
		name, suffix, isFunc := declarator(d, r.unit.src)
		if isFunc || name == "" {
			continue
		}

		dt := typeOf(typ, suffix, r.unit.src, r.wrappers)
		if isAuto(typ) && d.Type() == "init_declarator" {
			if c := r.infer(s, d.ChildByFieldName("value")); c != "" {
				dt = declType{target: c, class: c}
			}
		}
		s.define(name, dt)
	}
}

// initializers records members named in a constructor initializer list
func (r *resolver) initializers(s *scope, list *sitter.Node) {
	for i := 0; i < int(list.NamedChildCount()); i++ {
		init := list.NamedChild(i)
		if init.Type() != "field_initializer" {
			continue
		}
		for j := 0; j < int(init.NamedChildCount()); j++ {
			child := init.NamedChild(j)
			if child.Type() == "field_identifier" && s.class != "" {
				r.member(s, s.class, child)
				continue
			}
			r.walk(s, child)
		}
	}
}

func (r *resolver) walk(s *scope, n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "declaration":
		// values first; a local does not shadow members in its own initializer
		typ := n.ChildByFieldName("type")
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if typ != nil && child.Equal(typ) {
				continue
			}
			if child.Type() == "init_declarator" {
				r.walk(s, child.ChildByFieldName("value"))
			} else if !declaratorKinds[child.Type()] {
				r.walk(s, child)
			}
		}
		if typ != nil {
			r.declare(s, n)
		}
		return
	case "for_range_loop":
		r.walk(s, n.ChildByFieldName("right"))
		s.push()
		defer s.pop()
		if typ := n.ChildByFieldName("type"); typ != nil && !isAuto(typ) {
			name, suffix, _ := declarator(n.ChildByFieldName("declarator"), r.unit.src)
			if name != "" {
				s.define(name, typeOf(typ, suffix, r.unit.src, r.wrappers))
			}
		}
		r.walk(s, n.ChildByFieldName("body"))
		return
	case "compound_statement", "for_statement", "if_statement", "while_statement",
		"switch_statement", "catch_clause", "lambda_expression":
		// names declared here end with the block
		s.push()
		defer s.pop()
	case "field_expression":
		arg := n.ChildByFieldName("argument")
		field := n.ChildByFieldName("field")
		if field != nil && field.Type() == "field_identifier" {
			if c := r.classOf(s, arg); c != "" {
				r.member(s, c, field)
			}
		}
		r.walk(s, arg)
		return
	case "identifier":
		if _, local := s.local(n.Content(r.unit.src)); !local && s.class != "" {
			r.member(s, s.class, n)
		}
		return
	case "qualified_identifier", "field_identifier", "type_identifier",
		"template_type", "primitive_type", "string_literal", "raw_string_literal",
		"number_literal", "char_literal":
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		r.walk(s, n.NamedChild(i))
	}
}

// member records a reference from class c when name is a field of c or one
// of its bases
func (r *resolver) member(s *scope, c string, name *sitter.Node) {
	dt, ok := r.lookup(c, name.Content(r.unit.src), map[string]bool{})
	if !ok || dt.target == "" {
		return
	}

	p := name.StartPoint()
	s.refs = append(s.refs, Reference{
		From:  c,
		To:    dt.target,
		Field: name.Content(r.unit.src),
		Context: refgraph.Context{
			Function: s.function,
			Location: refgraph.Location{
				File:   r.unit.path,
				Line:   int(p.Row) + 1,
				Column: int(p.Column) + 1,
			},
		},
	})
}

// lookup finds field in class c or its bases
func (r *resolver) lookup(c, field string, seen map[string]bool) (declType, bool) {
	if seen[c] {
		return declType{}, false
	}
	seen[c] = true

	cls := r.classes[c]
	if cls == nil {
		return declType{}, false
	}
	if dt, ok := cls.fields[field]; ok {
		return dt, true
	}
	for _, base := range cls.bases {
		if dt, ok := r.lookup(base, field, seen); ok {
			return dt, true
		}
	}
	return declType{}, false
}

// classOf resolves the class of the object an expression denotes
func (r *resolver) classOf(s *scope, n *sitter.Node) string {
	if n == nil {
		return ""
	}
	src := r.unit.src

	switch n.Type() {
	case "this":
		return s.class
	case "identifier":
		name := n.Content(src)
		if dt, ok := s.local(name); ok {
			return dt.class
		}
		if s.class != "" {
			if dt, ok := r.lookup(s.class, name, map[string]bool{}); ok {
				return dt.class
			}
		}
	case "field_expression":
		c := r.classOf(s, n.ChildByFieldName("argument"))
		field := n.ChildByFieldName("field")
		if c == "" || field == nil {
			return ""
		}
		if dt, ok := r.lookup(c, field.Content(src), map[string]bool{}); ok {
			return dt.class
		}
	case "parenthesized_expression":
		return r.classOf(s, n.NamedChild(0))
	case "pointer_expression":
		return r.classOf(s, n.ChildByFieldName("argument"))
	case "subscript_expression":
		return r.classOf(s, n.ChildByFieldName("argument"))
	case "call_expression":
		// p.get() and p->get() yield the pointee
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "field_expression" {
			if f := fn.ChildByFieldName("field"); f != nil && f.Content(src) == "get" {
				return r.classOf(s, fn.ChildByFieldName("argument"))
			}
		}
	}
	return ""
}

// infer guesses the class of an auto-typed local from its initializer
func (r *resolver) infer(s *scope, value *sitter.Node) string {
	if value == nil {
		return ""
	}
	src := r.unit.src

	switch value.Type() {
	case "new_expression":
		return simpleName(value.ChildByFieldName("type"), src)
	case "call_expression":
		// make_shared<T>(...) and friends
		fn := value.ChildByFieldName("function")
		for fn != nil && fn.Type() == "qualified_identifier" {
			fn = fn.ChildByFieldName("name")
		}
		if fn != nil && fn.Type() == "template_function" &&
			strings.HasPrefix(simpleName(fn, src), "make_") {
			if args := fn.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
				arg := args.NamedChild(0)
				if t := arg.ChildByFieldName("type"); arg.Type() == "type_descriptor" && t != nil {
					arg = t
				}
				return simpleName(arg, src)
			}
		}
	}
	return r.classOf(s, value)
}

// isAuto reports a placeholder type such as auto or decltype(auto)
func isAuto(typ *sitter.Node) bool {
	if typ == nil {
		return false
	}
	return typ.Type() == "placeholder_type_specifier" || typ.Type() == "auto"
}
