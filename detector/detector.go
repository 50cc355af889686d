package detector

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Krantz-XRF/acyclic/refgraph"
)

// state is the traversal state of one node
type state uint8

const (
	unvisited state = iota
	onPath
	done
)

// frame is one level of the explicit depth-first stack
type frame struct {
	node int
	succ []int
	next int
}

// Option configures a Detector
type Option func(*Detector)

// WithLogger sets the logger used for traversal tracing
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Detector finds reference cycles in a finished graph.
//
// The graph must not be modified while Detect runs. A Detector holds no
// traversal state between calls, so Detect may be called repeatedly.
type Detector struct {
	graph  *refgraph.Graph
	logger *slog.Logger
}

// New creates a Detector for g
func New(g *refgraph.Graph, opts ...Option) *Detector {
	d := &Detector{
		graph:  g,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect walks every node depth-first and returns the cycles it closes.
//
// Start nodes and successors are visited in type-name order, so the result
// depends only on the graph contents. A node reached again while it is on
// the active path closes a cycle; a node that is already done is skipped.
func (d *Detector) Detect() []Cycle {
	g := d.graph
	states := make([]state, g.Len())
	// position of each on-path node within path
	pos := make([]int, g.Len())
	path := make([]int, 0, g.Len())
	stack := make([]frame, 0, g.Len())
	var cycles []Cycle

	push := func(id int) {
		d.logger.Debug("visiting",
			slog.String("type", g.Name(id)),
			slog.Int("depth", len(path)))
		states[id] = onPath
		pos[id] = len(path)
		path = append(path, id)
		stack = append(stack, frame{node: id, succ: g.Successors(id)})
	}

	for _, start := range g.IDs() {
		if states[start] != unvisited {
			continue
		}
		push(start)

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.succ) {
				states[top.node] = done
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			next := top.succ[top.next]
			top.next++

			switch states[next] {
			case unvisited:
				push(next)
			case onPath:
				c := d.buildCycle(path[pos[next]:])
				d.logger.Debug("cycle found", slog.String("chain", c.String()))
				cycles = append(cycles, c)
			case done:
			}
		}
	}

	return cycles
}

// buildCycle turns the path slice ids (whose first element is the revisited
// node) into a Cycle, closing it back to its first element.
func (d *Detector) buildCycle(ids []int) Cycle {
	g := d.graph
	c := Cycle{
		Chain: make([]string, 0, len(ids)+1),
		Links: make([]Link, 0, len(ids)),
	}
	for _, id := range ids {
		c.Chain = append(c.Chain, g.Name(id))
	}
	c.Chain = append(c.Chain, g.Name(ids[0]))

	for i, from := range ids {
		to := ids[(i+1)%len(ids)]
		bag, ok := g.Bag(from, to)
		if !ok {
			panic(fmt.Sprintf("detector: no edge %s -> %s on the traversal path", g.Name(from), g.Name(to)))
		}
		c.Links = append(c.Links, newLink(g.Name(from), g.Name(to), bag))
	}
	return c
}

// String renders the chain as A -> B -> A
func (c Cycle) String() string {
	return strings.Join(c.Chain, " -> ")
}
