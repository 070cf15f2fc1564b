package flow

import "github.com/openpeace/peace/pkg/ident"

// Flow owns a FlowID and the ItemGraph it drives (spec §4.2).
type Flow struct {
	id    ident.FlowID
	graph *Graph
}

// New returns a Flow wrapping graph.
func New(id ident.FlowID, graph *Graph) *Flow {
	return &Flow{id: id, graph: graph}
}

// ID returns the flow's identifier.
func (f *Flow) ID() ident.FlowID { return f.id }

// Graph returns the flow's ItemGraph.
func (f *Flow) Graph() *Graph { return f.graph }
