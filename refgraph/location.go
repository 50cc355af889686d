package refgraph

import (
	"fmt"
	"slices"

	"github.com/Krantz-XRF/acyclic/comparator"
)

// Location is a position in a source file
type Location struct {
	File   string
	Line   int
	Column int
}

// String renders the location as file:line:column
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// CompareLocations orders locations by file, then line, then column
func CompareLocations(l, r Location) comparator.Ord {
	return comparator.Begin().
		Next(comparator.By(l.File, r.File)).
		Next(comparator.By(l.Line, r.Line)).
		Next(comparator.By(l.Column, r.Column)).
		End()
}

// Less reports whether l sorts before r
func (l Location) Less(r Location) bool {
	return CompareLocations(l, r) == comparator.LT
}

// Context records where an access establishing a reference was observed
type Context struct {
	Function string
	Location Location
}

// Entry is one observation of a reference through a field
type Entry struct {
	Field   string
	Context Context
}

// String renders the context as (file:line:column:function)
func (c Context) String() string {
	return fmt.Sprintf("(%s:%s)", c.Location, c.Function)
}

// CompareEntries orders entries by field, location and function
func CompareEntries(l, r Entry) comparator.Ord {
	return comparator.Begin().
		Next(comparator.By(l.Field, r.Field)).
		Next(func() comparator.Ord { return CompareLocations(l.Context.Location, r.Context.Location) }).
		Next(comparator.By(l.Context.Function, r.Context.Function)).
		End()
}

// SortEntries sorts a bag so that its order does not depend on insertion order
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(l, r Entry) int {
		return int(CompareEntries(l, r))
	})
}

// SortLocations sorts locations in place
func SortLocations(locs []Location) {
	slices.SortFunc(locs, func(l, r Location) int {
		return int(CompareLocations(l, r))
	})
}
