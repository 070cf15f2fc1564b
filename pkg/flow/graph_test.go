package flow_test

import (
	"testing"

	"github.com/openpeace/peace/pkg/flow"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/item"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubItem is a bare-bones item.Interface implementation for exercising
// Graph without constructing a generic Item.
type stubItem struct {
	id ident.ItemID
}

func (s *stubItem) ID() ident.ItemID                   { return s.id }
func (s *stubItem) Setup(rm *resource.Map) error        { return nil }
func (s *stubItem) FetchData(rm *resource.Map) (any, error) { return nil, nil }
func (s *stubItem) ParamsTypeName() string              { return "stubParams" }
func (s *stubItem) StateTypeName() string                { return "stubState" }
func (s *stubItem) DiffTypeName() string                 { return "stubDiff" }
func (s *stubItem) StateClean(any, any) (any, error)     { return nil, nil }
func (s *stubItem) TryStateCurrent(item.FnCtx, any, any) (any, error) { return nil, nil }
func (s *stubItem) StateCurrent(item.FnCtx, any, any) (any, error)    { return nil, nil }
func (s *stubItem) TryStateGoal(item.FnCtx, any, any) (any, error)    { return nil, nil }
func (s *stubItem) StateGoal(item.FnCtx, any, any) (any, error)       { return nil, nil }
func (s *stubItem) StateDiff(any, any, any, any) (any, error)         { return nil, nil }
func (s *stubItem) ApplyCheck(any, any, any, any, any) (item.ApplyCheckResult, error) {
	return item.ExecNotRequired(), nil
}
func (s *stubItem) ApplyDry(item.FnCtx, any, any, any, any, any) (any, error) { return nil, nil }
func (s *stubItem) Apply(item.FnCtx, any, any, any, any, any) (any, error)    { return nil, nil }
func (s *stubItem) StateEqual(a, b any) bool                                 { return a == b }

func newStub(id string) item.Interface { return &stubItem{id: ident.ItemID(id)} }

func TestGraphTopoOrderRespectsInsertionAmongReadyNodes(t *testing.T) {
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(newStub("c")))
	require.NoError(t, g.AddItem(newStub("a")))
	require.NoError(t, g.AddItem(newStub("b")))

	// No edges: all three are simultaneously ready, so topo order should
	// equal insertion order.
	order, err := g.TopoOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, ident.ItemID("c"), order[0].ID())
	assert.Equal(t, ident.ItemID("a"), order[1].ID())
	assert.Equal(t, ident.ItemID("b"), order[2].ID())
}

func TestGraphTopoOrderRespectsDependencies(t *testing.T) {
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(newStub("a")))
	require.NoError(t, g.AddItem(newStub("b")))
	require.NoError(t, g.AddItem(newStub("c")))
	require.NoError(t, g.AddEdge("c", "a", flow.Logic))
	require.NoError(t, g.AddEdge("c", "b", flow.Logic))

	order, err := g.TopoOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, ident.ItemID("c"), order[0].ID())
	idx := map[ident.ItemID]int{}
	for i, it := range order {
		idx[it.ID()] = i
	}
	assert.Less(t, idx["c"], idx["a"])
	assert.Less(t, idx["c"], idx["b"])
}

func TestGraphRejectsDuplicateItemID(t *testing.T) {
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(newStub("a")))
	err := g.AddItem(newStub("a"))
	assert.Error(t, err)
}

func TestGraphDetectsCycle(t *testing.T) {
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(newStub("a")))
	require.NoError(t, g.AddItem(newStub("b")))
	require.NoError(t, g.AddEdge("a", "b", flow.Logic))
	require.NoError(t, g.AddEdge("b", "a", flow.Logic))

	_, err := g.TopoOrder()
	assert.Error(t, err)
}

func TestGraphAddEdgeRejectsUnknownEndpoints(t *testing.T) {
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(newStub("a")))
	err := g.AddEdge("a", "missing", flow.Logic)
	assert.Error(t, err)
}

func TestGraphEdgeClassification(t *testing.T) {
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(newStub("a")))
	require.NoError(t, g.AddItem(newStub("b")))
	require.NoError(t, g.AddEdge("a", "b", flow.Contains))

	succ := g.Successors("a")
	require.Len(t, succ, 1)
	assert.Equal(t, flow.Contains, succ[0].Kind)

	pred := g.Predecessors("b")
	require.Len(t, pred, 1)
	assert.Equal(t, ident.ItemID("a"), pred[0].From)
}

func TestFlowIDAndGraph(t *testing.T) {
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(newStub("a")))
	f := flow.New(ident.FlowID("deploy"), g)
	assert.Equal(t, ident.FlowID("deploy"), f.ID())
	assert.Equal(t, 1, f.Graph().Len())
}
