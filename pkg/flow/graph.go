// Package flow implements Flow and ItemGraph: the DAG of boxed Items that
// a CmdExecution runs against (spec §4.2).
//
// ItemGraph stores items in insertion order and assigns each a dense
// integer node id, the same two-phase shape as the teacher's DAGBuilder
// (pkg/engine/dag.go: index first, then link edges, then compute a
// topological order) — generalized here from DAGBuilder's single
// "dependency" edge kind into Peace's two edge classifications (Logic,
// Contains), both of which still imply ordering (spec §4.2: "Both imply
// ordering").
package flow

import (
	"fmt"
	"strings"

	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/item"
	"github.com/openpeace/peace/pkg/perr"
)

// EdgeKind classifies why a Logic or Contains edge exists between two
// items (spec §4.2).
type EdgeKind int

const (
	// Logic means the successor's params reference the predecessor's
	// state; consulted by the params resolver to order discovery.
	Logic EdgeKind = iota
	// Contains means the predecessor nests the successor; a
	// presentational hint for the outcome graph renderer that, per spec
	// §4.2 and the open question in §7, also implies ordering.
	Contains
)

func (k EdgeKind) String() string {
	if k == Contains {
		return "Contains"
	}
	return "Logic"
}

// Edge is a directed edge between two items, from predecessor to
// successor.
type Edge struct {
	From ident.ItemID
	To   ident.ItemID
	Kind EdgeKind
}

type node struct {
	itemID     ident.ItemID
	boxed      item.Interface
	successors []int
}

// Graph is the ItemGraph: an insertion-ordered DAG of boxed items.
type Graph struct {
	nodes   []*node
	indexOf map[ident.ItemID]int
	edges   []Edge
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{indexOf: make(map[ident.ItemID]int)}
}

// AddItem inserts a boxed item, assigning it the next dense integer id.
// Returns an error if an item with the same ItemID is already present.
func (g *Graph) AddItem(boxed item.Interface) error {
	id := boxed.ID()
	if _, exists := g.indexOf[id]; exists {
		return perr.NewInvalidIdentifier(id.String(), "duplicate item id in flow")
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, &node{itemID: id, boxed: boxed})
	g.indexOf[id] = idx
	return nil
}

// AddEdge records a directed edge between two items already present in
// the graph, classified as Logic or Contains.
func (g *Graph) AddEdge(from, to ident.ItemID, kind EdgeKind) error {
	fi, ok := g.indexOf[from]
	if !ok {
		return perr.NewInvalidIdentifier(from.String(), "edge references item not in flow")
	}
	ti, ok := g.indexOf[to]
	if !ok {
		return perr.NewInvalidIdentifier(to.String(), "edge references item not in flow")
	}
	g.nodes[fi].successors = append(g.nodes[fi].successors, ti)
	g.edges = append(g.edges, Edge{From: from, To: to, Kind: kind})
	return nil
}

// Len returns the number of items in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Item returns the boxed item with the given ItemID.
func (g *Graph) Item(id ident.ItemID) (item.Interface, bool) {
	idx, ok := g.indexOf[id]
	if !ok {
		return nil, false
	}
	return g.nodes[idx].boxed, true
}

// InsertionOrder returns items in the order they were added to the graph.
func (g *Graph) InsertionOrder() []item.Interface {
	out := make([]item.Interface, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.boxed
	}
	return out
}

// Predecessors returns the items with an edge into id, and their edge
// classification.
func (g *Graph) Predecessors(id ident.ItemID) []Edge {
	if _, ok := g.indexOf[id]; !ok {
		return nil
	}
	var out []Edge
	for _, e := range g.edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Successors returns the items with an edge out of id, and their edge
// classification.
func (g *Graph) Successors(id ident.ItemID) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// TopoOrder returns items in a topological order consistent with
// insertion order (spec §4.1 invariant: "iteration order is insertion
// order refined by topological dependency" — ties between
// simultaneously-ready nodes break by insertion order, mirroring the
// teacher DAGBuilder's Kahn's-algorithm level computation in
// pkg/engine/dag.go's computeLevels). AddEdge only checks that both
// endpoints exist and accepts an edge that closes a cycle; TopoOrder runs
// detectCycle first and returns its error when the graph has a cycle.
func (g *Graph) TopoOrder() ([]item.Interface, error) {
	if err := g.detectCycle(); err != nil {
		return nil, err
	}

	inDegree := make([]int, len(g.nodes))
	for _, n := range g.nodes {
		for _, s := range n.successors {
			inDegree[s]++
		}
	}

	ready := make([]int, 0, len(g.nodes))
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]item.Interface, 0, len(g.nodes))
	for len(ready) > 0 {
		// Pop the lowest insertion-ordered ready node first.
		minPos := 0
		for i, idx := range ready {
			if idx < ready[minPos] {
				minPos = i
			}
		}
		idx := ready[minPos]
		ready = append(ready[:minPos], ready[minPos+1:]...)

		order = append(order, g.nodes[idx].boxed)
		for _, s := range g.nodes[idx].successors {
			inDegree[s]--
			if inDegree[s] == 0 {
				ready = append(ready, s)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, perr.NewInvalidIdentifier("<flow>", "internal: topological sort did not visit every node")
	}
	return order, nil
}

// detectCycle runs DFS over the successor relation, returning an error
// naming the cycle if one exists (spec §8 property 2: "Building a flow
// with a cycle fails").
func (g *Graph) detectCycle() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.nodes))
	var path []int

	var visit func(i int) []int
	visit = func(i int) []int {
		color[i] = gray
		path = append(path, i)
		for _, s := range g.nodes[i].successors {
			switch color[s] {
			case white:
				if cyc := visit(s); cyc != nil {
					return cyc
				}
			case gray:
				// Found the back edge; extract the cycle from path.
				start := 0
				for j, p := range path {
					if p == s {
						start = j
						break
					}
				}
				cyc := append([]int{}, path[start:]...)
				cyc = append(cyc, s)
				return cyc
			}
		}
		path = path[:len(path)-1]
		color[i] = black
		return nil
	}

	for i := range g.nodes {
		if color[i] == white {
			if cyc := visit(i); cyc != nil {
				names := make([]string, len(cyc))
				for j, idx := range cyc {
					names[j] = g.nodes[idx].itemID.String()
				}
				return perr.NewInvalidIdentifier(
					strings.Join(names, " -> "),
					"cycle detected in item graph",
				)
			}
		}
	}
	return nil
}

// String renders the graph as a compact edge list, for diagnostics.
func (g *Graph) String() string {
	var sb strings.Builder
	for _, e := range g.edges {
		fmt.Fprintf(&sb, "%s -[%s]-> %s\n", e.From, e.Kind, e.To)
	}
	return sb.String()
}
