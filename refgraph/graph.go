// Package refgraph holds the type-to-type reference graph. Each directed edge
// between two types carries every (field, context) pair through which the
// reference was observed.
package refgraph

import (
	"slices"
	"strings"
)

// edge is the bag of entries from one source type to one target type
type edge struct {
	to      int
	entries []Entry
}

// Graph is a directed multigraph keyed by type name.
//
// Type names are interned into dense ids on first sight. Each source id owns
// an adjacency list with exactly one bag per target; slot maps a target id to
// its position in that list. The zero value is not usable, call New.
type Graph struct {
	ids   map[string]int
	names []string
	adj   [][]edge
	slot  []map[int]int
	edges int
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		ids: make(map[string]int),
	}
}

// intern returns the id of name, creating the node if needed
func (g *Graph) intern(name string) int {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := len(g.names)
	g.ids[name] = id
	g.names = append(g.names, name)
	g.adj = append(g.adj, nil)
	g.slot = append(g.slot, make(map[int]int))
	return id
}

// AddReference records that from reaches to through field, observed at ctx.
// It always appends; repeated observations of the same field are kept.
func (g *Graph) AddReference(from, to, field string, ctx Context) {
	f := g.intern(from)
	t := g.intern(to)

	entry := Entry{Field: field, Context: ctx}
	if i, ok := g.slot[f][t]; ok {
		g.adj[f][i].entries = append(g.adj[f][i].entries, entry)
	} else {
		g.slot[f][t] = len(g.adj[f])
		g.adj[f] = append(g.adj[f], edge{to: t, entries: []Entry{entry}})
	}
	g.edges++
}

// Edges returns a copy of the entries recorded from from to to.
// The result is empty if there is no direct edge.
func (g *Graph) Edges(from, to string) []Entry {
	f, ok := g.ids[from]
	if !ok {
		return []Entry{}
	}
	t, ok := g.ids[to]
	if !ok {
		return []Entry{}
	}
	bag, _ := g.Bag(f, t)
	return slices.Clone(bag)
}

// Neighbors returns the distinct targets of from, sorted by name
func (g *Graph) Neighbors(from string) []string {
	f, ok := g.ids[from]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(g.adj[f]))
	for _, e := range g.adj[f] {
		out = append(out, g.names[e.to])
	}
	slices.Sort(out)
	return out
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.names)
}

// EdgeCount returns the number of recorded entries over all bags
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Types returns every node name, sorted
func (g *Graph) Types() []string {
	out := slices.Clone(g.names)
	slices.Sort(out)
	return out
}

// ID returns the interned id of name
func (g *Graph) ID(name string) (int, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Name returns the display name of id
func (g *Graph) Name(id int) string {
	return g.names[id]
}

// IDs returns every node id ordered by name
func (g *Graph) IDs() []int {
	out := make([]int, len(g.names))
	for i := range out {
		out[i] = i
	}
	g.sortByName(out)
	return out
}

// Successors returns the distinct target ids of id ordered by name
func (g *Graph) Successors(id int) []int {
	out := make([]int, 0, len(g.adj[id]))
	for _, e := range g.adj[id] {
		out = append(out, e.to)
	}
	g.sortByName(out)
	return out
}

// Bag returns the entries from id from to id to without copying.
// Callers must not modify the returned slice.
func (g *Graph) Bag(from, to int) ([]Entry, bool) {
	if from < 0 || from >= len(g.slot) {
		return nil, false
	}
	i, ok := g.slot[from][to]
	if !ok {
		return nil, false
	}
	return g.adj[from][i].entries, true
}

func (g *Graph) sortByName(ids []int) {
	slices.SortFunc(ids, func(a, b int) int {
		return strings.Compare(g.names[a], g.names[b])
	})
}
