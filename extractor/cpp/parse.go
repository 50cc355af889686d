package cpp

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tscpp "github.com/smacker/go-tree-sitter/cpp"
)

// unit is one parsed file. Its tree stays open until extraction finishes.
type unit struct {
	path    string
	src     []byte
	tree    *sitter.Tree
	classes []*class
	funcs   []funcNode
}

func (u *unit) close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// class is one class, struct or union definition
type class struct {
	name   string
	path   string
	bases  []string
	fields map[string]declType
}

// funcNode is a function definition with its lexically enclosing class
type funcNode struct {
	node  *sitter.Node
	class string
}

// declType is the type of a declared field, parameter or local
type declType struct {
	// target is the node a field of this type references: the wrapped type
	// for shared wrappers, otherwise the declared type.
	target string
	// class names the class whose members an object of this type exposes.
	class string
}

var (
	classKinds = map[string]bool{
		"class_specifier":  true,
		"struct_specifier": true,
		"union_specifier":  true,
	}
	declaratorKinds = map[string]bool{
		"identifier":               true,
		"field_identifier":         true,
		"pointer_declarator":       true,
		"reference_declarator":     true,
		"array_declarator":         true,
		"init_declarator":          true,
		"function_declarator":      true,
		"parenthesized_declarator": true,
	}
)

// parseUnit parses src and records its classes and function definitions
func parseUnit(ctx context.Context, path string, src []byte, wrappers []string) (*unit, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tscpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}

	u := &unit{path: path, src: src, tree: tree}
	u.collect(tree.RootNode(), "", wrappers)
	return u, nil
}

// collect walks declarations, tracking the enclosing class
func (u *unit) collect(n *sitter.Node, enclosing string, wrappers []string) {
	if n == nil {
		return
	}

	switch {
	case classKinds[n.Type()]:
		if c := u.class(n, wrappers); c != nil {
			u.classes = append(u.classes, c)
			enclosing = c.name
		}
	case n.Type() == "function_definition":
		u.funcs = append(u.funcs, funcNode{node: n, class: enclosing})
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		u.collect(n.NamedChild(i), enclosing, wrappers)
	}
}

// class records a class definition; forward declarations and anonymous
// classes yield nil
func (u *unit) class(n *sitter.Node, wrappers []string) *class {
	name := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil
	}

	c := &class{
		name:   simpleName(name, u.src),
		path:   u.path,
		fields: make(map[string]declType),
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "base_class_clause" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			switch base := child.NamedChild(j); base.Type() {
			case "type_identifier", "qualified_identifier", "template_type":
				c.bases = append(c.bases, simpleName(base, u.src))
			}
		}
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		decl := body.NamedChild(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		typ := decl.ChildByFieldName("type")
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			d := decl.NamedChild(j)
			if !declaratorKinds[d.Type()] {
				continue
			}
			fieldName, suffix, isFunc := declarator(d, u.src)
			if isFunc || fieldName == "" {
				continue
			}
			c.fields[fieldName] = typeOf(typ, suffix, u.src, wrappers)
		}
	}
	return c
}

// declarator returns the declared name and the pointer, reference and array
// suffix applied to the base type. isFunc reports a function declarator.
func declarator(n *sitter.Node, src []byte) (name, suffix string, isFunc bool) {
	for n != nil {
		switch n.Type() {
		case "identifier", "field_identifier":
			return n.Content(src), suffix, false
		case "pointer_declarator":
			suffix += "*"
			n = n.ChildByFieldName("declarator")
		case "reference_declarator":
			suffix += "&"
			n = n.NamedChild(0)
		case "array_declarator":
			suffix += "[]"
			n = n.ChildByFieldName("declarator")
		case "init_declarator":
			n = n.ChildByFieldName("declarator")
		case "parenthesized_declarator":
			n = n.NamedChild(0)
		case "function_declarator":
			return "", suffix, true
		default:
			return "", suffix, false
		}
	}
	return "", suffix, false
}

// typeOf resolves a declared type
func typeOf(typ *sitter.Node, suffix string, src []byte, wrappers []string) declType {
	if typ == nil {
		return declType{}
	}

	if arg, ok := wrapped(typ, src, wrappers); ok && !strings.ContainsAny(suffix, "*[") {
		return declType{target: arg, class: arg}
	}

	base := simpleName(typ, src)
	target := base
	if strings.ContainsAny(suffix, "*[") {
		target = compact(typ.Content(src)) + " " + strings.ReplaceAll(suffix, "&", "")
	}
	return declType{target: target, class: base}
}

// wrapped checks if typ instantiates a configured wrapper template, directly
// or inside the arguments of another template such as a container, and
// returns the first template argument of the first wrapper found
func wrapped(typ *sitter.Node, src []byte, wrappers []string) (string, bool) {
	tmpl := typ
	for tmpl != nil && tmpl.Type() == "qualified_identifier" {
		tmpl = tmpl.ChildByFieldName("name")
	}
	if tmpl == nil || tmpl.Type() != "template_type" {
		return "", false
	}
	args := tmpl.ChildByFieldName("arguments")

	if isWrapper(simpleName(tmpl, src), qualifiedName(typ, src), wrappers) {
		if args == nil || args.NamedChildCount() == 0 {
			return "", false
		}
		return simpleName(argType(args.NamedChild(0)), src), true
	}

	if args == nil {
		return "", false
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if arg, ok := wrapped(argType(args.NamedChild(i)), src, wrappers); ok {
			return arg, true
		}
	}
	return "", false
}

// isWrapper matches a template by its simple name, or by its qualified name
// for wrapper entries containing "::"
func isWrapper(name, qualified string, wrappers []string) bool {
	for _, w := range wrappers {
		if strings.Contains(w, "::") {
			if strings.TrimPrefix(w, "::") == qualified {
				return true
			}
		} else if w == name {
			return true
		}
	}
	return false
}

// argType looks through the type descriptor of a template argument
func argType(arg *sitter.Node) *sitter.Node {
	if arg.Type() == "type_descriptor" {
		if t := arg.ChildByFieldName("type"); t != nil {
			return t
		}
	}
	return arg
}

// simpleName returns the unqualified name of a type or scope node
func simpleName(n *sitter.Node, src []byte) string {
	for n != nil {
		switch n.Type() {
		case "qualified_identifier", "template_type", "template_function",
			"class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
			next := n.ChildByFieldName("name")
			if next == nil {
				return compact(n.Content(src))
			}
			n = next
		default:
			return compact(n.Content(src))
		}
	}
	return ""
}

// qualifiedName renders a type without template arguments or a leading "::"
func qualifiedName(n *sitter.Node, src []byte) string {
	s := n.Content(src)
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	s = strings.Join(strings.Fields(s), "")
	return strings.TrimPrefix(s, "::")
}

// compact collapses whitespace runs into single spaces
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
