package refgraph

import (
	"reflect"
	"testing"
)

func ctxAt(fn, file string, line, col int) Context {
	return Context{Function: fn, Location: Location{File: file, Line: line, Column: col}}
}

func TestGraph_AddReference_MultiEdge(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddReference("A", "B", "f1", ctxAt("init", "a.cpp", 3, 5))
	g.AddReference("A", "B", "f2", ctxAt("reset", "a.cpp", 9, 5))

	got := g.Edges("A", "B")
	want := []Entry{
		{Field: "f1", Context: ctxAt("init", "a.cpp", 3, 5)},
		{Field: "f2", Context: ctxAt("reset", "a.cpp", 9, 5)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Edges(A, B) = %+v, want %+v", got, want)
	}
	if n := g.EdgeCount(); n != 2 {
		t.Errorf("EdgeCount() = %d, want 2", n)
	}
}

func TestGraph_AddReference_KeepsDuplicateFields(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddReference("A", "B", "child", ctxAt("f", "a.cpp", 1, 1))
	g.AddReference("A", "B", "child", ctxAt("g", "a.cpp", 2, 1))
	g.AddReference("A", "B", "child", ctxAt("g", "a.cpp", 2, 1))

	if got := len(g.Edges("A", "B")); got != 3 {
		t.Errorf("len(Edges(A, B)) = %d, want 3", got)
	}
	if got := g.Neighbors("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Neighbors(A) = %v, want [B]", got)
	}
}

func TestGraph_ImplicitNodes(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddReference("", "B", "", Context{})

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	if got := g.Types(); !reflect.DeepEqual(got, []string{"", "B"}) {
		t.Errorf("Types() = %q, want [\"\" \"B\"]", got)
	}
	if _, ok := g.ID("B"); !ok {
		t.Error("ID(B) not found, target node should be created implicitly")
	}
	if got := g.Neighbors("B"); len(got) != 0 {
		t.Errorf("Neighbors(B) = %v, want empty", got)
	}
}

func TestGraph_Edges_Missing(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddReference("A", "B", "f", Context{})

	tests := []struct {
		name     string
		from, to string
	}{
		{name: "reverse direction", from: "B", to: "A"},
		{name: "unknown source", from: "X", to: "B"},
		{name: "unknown target", from: "A", to: "X"},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := g.Edges(tt.from, tt.to)
			if got == nil || len(got) != 0 {
				t.Errorf("Edges(%q, %q) = %#v, want empty non-nil", tt.from, tt.to, got)
			}
		})
	}
}

func TestGraph_Edges_ReturnsCopy(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddReference("A", "B", "f", Context{})

	got := g.Edges("A", "B")
	got[0].Field = "mutated"

	if g.Edges("A", "B")[0].Field != "f" {
		t.Error("Edges() exposed internal storage")
	}
}

func TestGraph_OrderingIsByName(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddReference("Zeta", "Beta", "b", Context{})
	g.AddReference("Zeta", "Alpha", "a", Context{})
	g.AddReference("Alpha", "Zeta", "z", Context{})

	names := func(ids []int) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = g.Name(id)
		}
		return out
	}

	if got := names(g.IDs()); !reflect.DeepEqual(got, []string{"Alpha", "Beta", "Zeta"}) {
		t.Errorf("IDs() names = %v", got)
	}
	zeta, _ := g.ID("Zeta")
	if got := names(g.Successors(zeta)); !reflect.DeepEqual(got, []string{"Alpha", "Beta"}) {
		t.Errorf("Successors(Zeta) names = %v", got)
	}
	if got := g.Neighbors("Zeta"); !reflect.DeepEqual(got, []string{"Alpha", "Beta"}) {
		t.Errorf("Neighbors(Zeta) = %v", got)
	}
}

func TestGraph_Bag(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddReference("A", "B", "f", Context{})
	a, _ := g.ID("A")
	b, _ := g.ID("B")

	if _, ok := g.Bag(a, b); !ok {
		t.Error("Bag(A, B) not found")
	}
	if _, ok := g.Bag(b, a); ok {
		t.Error("Bag(B, A) found, want missing")
	}
	if _, ok := g.Bag(-1, a); ok {
		t.Error("Bag(-1, A) found, want missing")
	}
}
