// Package detector finds reference cycles in a refgraph.Graph and aggregates
// the provenance of every link in each cycle.
package detector

import (
	"slices"

	"github.com/Krantz-XRF/acyclic/refgraph"
)

// RuleID identifies cycle findings in machine-readable reports
const RuleID = "retain-cycle"

// Cycle is one detected chain of references returning to its start
type Cycle struct {
	// Chain lists the types in order; the last element repeats the first.
	Chain []string
	// Links holds one entry per consecutive pair of Chain.
	Links []Link
}

// Link aggregates the entries between two adjacent types of a chain
type Link struct {
	From string
	To   string

	// Entries are sorted by field, location and function.
	Entries []refgraph.Entry

	// Distinct values over Entries, sorted.
	Fields    []string
	Functions []string
	Locations []refgraph.Location
}

func newLink(from, to string, bag []refgraph.Entry) Link {
	entries := slices.Clone(bag)
	refgraph.SortEntries(entries)

	l := Link{From: from, To: to, Entries: entries}

	fields := make(map[string]struct{})
	funcs := make(map[string]struct{})
	locs := make(map[refgraph.Location]struct{})
	for _, e := range entries {
		if _, ok := fields[e.Field]; !ok {
			fields[e.Field] = struct{}{}
			l.Fields = append(l.Fields, e.Field)
		}
		if _, ok := funcs[e.Context.Function]; !ok {
			funcs[e.Context.Function] = struct{}{}
			l.Functions = append(l.Functions, e.Context.Function)
		}
		if _, ok := locs[e.Context.Location]; !ok {
			locs[e.Context.Location] = struct{}{}
			l.Locations = append(l.Locations, e.Context.Location)
		}
	}
	slices.Sort(l.Fields)
	slices.Sort(l.Functions)
	refgraph.SortLocations(l.Locations)
	return l
}

// First returns the first entry of the first link, the natural anchor for a
// positional diagnostic.
func (c Cycle) First() (refgraph.Entry, bool) {
	if len(c.Links) == 0 || len(c.Links[0].Entries) == 0 {
		return refgraph.Entry{}, false
	}
	return c.Links[0].Entries[0], true
}
