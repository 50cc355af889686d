// Package sharedchecker recognises shared-ownership wrapper types in Go code.
package sharedchecker

import (
	"go/types"
	"strings"
)

// Matcher decides whether a field type owns another named type
type Matcher struct {
	names          map[string]bool
	followPointers bool
}

// New creates a Matcher for the given wrapper names. A name is either a bare
// type name ("Shared") or a package-qualified one ("github.com/acme/rc.Ref").
// C++ qualified names are accepted and ignored.
func New(wrappers []string, followPointers bool) *Matcher {
	m := &Matcher{
		names:          make(map[string]bool, len(wrappers)),
		followPointers: followPointers,
	}
	for _, w := range wrappers {
		if strings.Contains(w, "::") {
			continue
		}
		m.names[w] = true
	}
	return m
}

// Match reports the type owned through t when t is a configured wrapper
func Match(t types.Type, wrappers []string) (types.Type, bool) {
	return New(wrappers, false).Match(t)
}

// Match returns the owned type of t. It accepts:
// 1. An instantiation of a configured generic wrapper (e.g., Shared[Node]),
// also behind a pointer (e.g., *Shared[Node])
// 2. A pointer to a named struct (e.g., *Node) when pointers are followed
// 3. Either of the above as the element of a slice, array, map or channel
// (e.g., []Shared[Node]) or as a type argument of another generic type
func (m *Matcher) Match(t types.Type) (types.Type, bool) {
	t = types.Unalias(t)

	switch t := t.(type) {
	case *types.Pointer:
		if arg, ok := m.wrapped(t.Elem()); ok {
			return arg, true
		}
		if m.followPointers {
			if named, ok := types.Unalias(t.Elem()).(*types.Named); ok && isStruct(named) {
				return named, true
			}
		}
		return nil, false
	case *types.Slice:
		return m.Match(t.Elem())
	case *types.Array:
		return m.Match(t.Elem())
	case *types.Map:
		return m.Match(t.Elem())
	case *types.Chan:
		return m.Match(t.Elem())
	case *types.Named:
		if arg, ok := m.wrapped(t); ok {
			return arg, true
		}
		args := t.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			if arg, ok := m.Match(args.At(i)); ok {
				return arg, true
			}
		}
	}
	return nil, false
}

// Owned resolves the named type at the end of t, looking through pointers,
// so that Shared[*Node] and Shared[Node] both own Node
func (m *Matcher) Owned(t types.Type) (*types.Named, bool) {
	arg, ok := m.Match(t)
	if !ok {
		return nil, false
	}
	for {
		ptr, ok := types.Unalias(arg).(*types.Pointer)
		if !ok {
			break
		}
		arg = ptr.Elem()
	}
	named, ok := types.Unalias(arg).(*types.Named)
	if !ok || named.Obj() == nil {
		return nil, false
	}
	return named, true
}

// wrapped checks if t is an instantiated wrapper and returns its first type argument
func (m *Matcher) wrapped(t types.Type) (types.Type, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, false
	}

	args := named.TypeArgs()
	if args == nil || args.Len() == 0 {
		return nil, false
	}

	if !m.isWrapper(named.Origin().Obj()) {
		return nil, false
	}
	return args.At(0), true
}

// isWrapper checks if the type name is configured by name or by pkgpath.Name
func (m *Matcher) isWrapper(obj *types.TypeName) bool {
	// Add nil check to handle build constraint issues
	if obj == nil {
		return false
	}

	if m.names[obj.Name()] {
		return true
	}

	pkg := obj.Pkg()
	if pkg == nil {
		return false
	}
	return m.names[pkg.Path()+"."+obj.Name()]
}

func isStruct(named *types.Named) bool {
	_, ok := named.Underlying().(*types.Struct)
	return ok
}
