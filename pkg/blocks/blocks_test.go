package blocks_test

import (
	"context"
	"testing"

	"github.com/openpeace/peace/pkg/blocks"
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/flow"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/item"
	"github.com/openpeace/peace/pkg/output"
	"github.com/openpeace/peace/pkg/params"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
	"github.com/openpeace/peace/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterParams/.../counterItem mirror pkg/item's own test fixture: a
// minimal Item implementation exercising blocks against a real (if
// trivial) Wrap round trip rather than a hand-rolled item.Interface stub.

type counterParams struct{ Target int }

func (p counterParams) ToPartial() counterPartial { return counterPartial{Target: &p.Target} }

type counterPartial struct{ Target *int }

func (p counterPartial) Merge(base counterParams) counterParams {
	if p.Target != nil {
		base.Target = *p.Target
	}
	return base
}

func (p counterPartial) TryBuild() (counterParams, bool) {
	if p.Target == nil {
		return counterParams{}, false
	}
	return counterParams{Target: *p.Target}, true
}

type counterState struct{ N int }
type counterDiff struct{ Delta int }
type counterData struct{}

type counterItem struct {
	id      ident.ItemID
	current int
}

func (c *counterItem) ID() ident.ItemID             { return c.id }
func (c *counterItem) Setup(rm *resource.Map) error  { return nil }
func (c *counterItem) StateClean(partial counterPartial, data counterData) (counterState, error) {
	return counterState{N: 0}, nil
}
func (c *counterItem) TryStateCurrent(fnCtx item.FnCtx, partial counterPartial, data counterData) (*counterState, error) {
	s := counterState{N: c.current}
	return &s, nil
}
func (c *counterItem) StateCurrent(fnCtx item.FnCtx, p counterParams, data counterData) (counterState, error) {
	return counterState{N: c.current}, nil
}
func (c *counterItem) TryStateGoal(fnCtx item.FnCtx, partial counterPartial, data counterData) (*counterState, error) {
	if partial.Target == nil {
		return nil, nil
	}
	return &counterState{N: *partial.Target}, nil
}
func (c *counterItem) StateGoal(fnCtx item.FnCtx, p counterParams, data counterData) (counterState, error) {
	return counterState{N: p.Target}, nil
}
func (c *counterItem) StateDiff(partial counterPartial, data counterData, current, goal counterState) (counterDiff, error) {
	return counterDiff{Delta: goal.N - current.N}, nil
}
func (c *counterItem) ApplyCheck(p counterParams, data counterData, current, target counterState, diff counterDiff) (item.ApplyCheckResult, error) {
	if diff.Delta == 0 {
		return item.ExecNotRequired(), nil
	}
	return item.ExecRequired(item.ProgressLimitOfSteps(1)), nil
}
func (c *counterItem) ApplyDry(fnCtx item.FnCtx, p counterParams, data counterData, current, target counterState, diff counterDiff) (counterState, error) {
	return target, nil
}
func (c *counterItem) Apply(fnCtx item.FnCtx, p counterParams, data counterData, current, target counterState, diff counterDiff) (counterState, error) {
	c.current = target.N
	return target, nil
}

func wrapCounter(id string, current int) item.Interface {
	it := &counterItem{id: ident.ItemID(id), current: current}
	return item.Wrap[counterParams, counterPartial, counterState, counterDiff, counterData](
		it,
		func(rm *resource.Map) (counterData, error) { return counterData{}, nil },
	)
}

func newCmdCtx(t *testing.T, itemID string, target int) *cmdctx.CmdCtx {
	t.Helper()
	ws := workspace.New(t.TempDir(), "peace", "default", "demo")
	g := flow.NewGraph()
	require.NoError(t, g.AddItem(wrapCounter(itemID, 0)))
	fl := flow.New("demo", g)
	out := output.NewWriter(nil, 4)
	cc := cmdctx.New(context.Background(), ws, fl, out)
	cc.WithParamsSpec(ident.ItemID(itemID), params.OfValue[counterParams, counterPartial](counterParams{Target: target}))
	return cc
}

func itemIDs(ids ...string) []ident.ItemID {
	out := make([]ident.ItemID, len(ids))
	for i, id := range ids {
		out[i] = ident.ItemID(id)
	}
	return out
}

func TestStatesDiscoverCurrentAndGoal(t *testing.T) {
	cc := newCmdCtx(t, "counter", 5)
	ids := itemIDs("counter")

	currentBlock := &blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent}
	result := currentBlock.Exec(cc, ids)
	require.Equal(t, cmdblock.ResultComplete, result.Kind)

	goalBlock := &blocks.StatesDiscover[states.Goal]{Mode: blocks.DiscoverGoal}
	result = goalBlock.Exec(cc, ids)
	require.Equal(t, cmdblock.ResultComplete, result.Kind)

	current, err := resource.TryBorrow[states.States[states.Current]](cc.Resources)
	require.NoError(t, err)
	v, _, hasState := current.Value().Map.Get("counter")
	assert.True(t, hasState)
	assert.Equal(t, counterState{N: 0}, v)

	goal, err := resource.TryBorrow[states.States[states.Goal]](cc.Resources)
	require.NoError(t, err)
	v, _, hasState = goal.Value().Map.Get("counter")
	assert.True(t, hasState)
	assert.Equal(t, counterState{N: 5}, v)
}

func TestDiffComparesCurrentAgainstGoal(t *testing.T) {
	cc := newCmdCtx(t, "counter", 5)
	ids := itemIDs("counter")

	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent}).Exec(cc, ids).Kind)
	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Goal]{Mode: blocks.DiscoverGoal}).Exec(cc, ids).Kind)

	diffBlock := &blocks.Diff[states.Current, states.Goal]{}
	require.NoError(t, diffBlock.CheckInputs(cc.Resources))
	result := diffBlock.Exec(cc, ids)
	require.Equal(t, cmdblock.ResultComplete, result.Kind)

	diffs := result.Outcome.(*states.StateDiffs)
	v, ok := diffs.Get("counter")
	require.True(t, ok)
	assert.Equal(t, counterDiff{Delta: 5}, v)
}

func TestApplyExecRunsApplyWhenRequired(t *testing.T) {
	cc := newCmdCtx(t, "counter", 5)
	ids := itemIDs("counter")

	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent}).Exec(cc, ids).Kind)
	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Goal]{Mode: blocks.DiscoverGoal}).Exec(cc, ids).Kind)

	applyBlock := &blocks.ApplyExec{}
	require.NoError(t, applyBlock.CheckInputs(cc.Resources))
	result := applyBlock.Exec(cc, ids)
	require.Equal(t, cmdblock.ResultComplete, result.Kind)

	applied := result.Outcome.(states.States[states.Applied])
	v, _, hasState := applied.Map.Get("counter")
	require.True(t, hasState)
	assert.Equal(t, counterState{N: 5}, v)

	previous, err := resource.TryBorrow[states.States[states.Previous]](cc.Resources)
	require.NoError(t, err)
	v, _, hasState = previous.Value().Map.Get("counter")
	require.True(t, hasState)
	assert.Equal(t, counterState{N: 0}, v)
}

func TestApplyExecSkipsWhenNoopRequired(t *testing.T) {
	cc := newCmdCtx(t, "counter", 0) // goal == current
	ids := itemIDs("counter")

	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent}).Exec(cc, ids).Kind)
	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Goal]{Mode: blocks.DiscoverGoal}).Exec(cc, ids).Kind)

	result := (&blocks.ApplyExec{}).Exec(cc, ids)
	require.Equal(t, cmdblock.ResultComplete, result.Kind)

	applied := result.Outcome.(states.States[states.Applied])
	v, _, _ := applied.Map.Get("counter")
	assert.Equal(t, counterState{N: 0}, v)
}

func TestApplyStateSyncCheckFlagsDrift(t *testing.T) {
	cc := newCmdCtx(t, "counter", 5)
	ids := itemIDs("counter")

	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent}).Exec(cc, ids).Kind)
	require.Equal(t, cmdblock.ResultComplete, (&blocks.StatesDiscover[states.Goal]{Mode: blocks.DiscoverGoal}).Exec(cc, ids).Kind)

	stored := states.New[states.CurrentStored]()
	stored.Map.InsertState("counter", counterState{N: 99})
	resource.Insert(cc.Resources, stored)

	check := &blocks.ApplyStateSyncCheck{}
	require.NoError(t, check.CheckInputs(cc.Resources))
	result := check.Exec(cc, ids)
	require.Equal(t, cmdblock.ResultComplete, result.Kind)

	report := result.Outcome.(blocks.SyncReport)
	assert.False(t, report.InSync["counter"])
}

func TestStatesCleanProducesZeroStateAndWiresGoal(t *testing.T) {
	cc := newCmdCtx(t, "counter", 5)
	ids := itemIDs("counter")

	result := (&blocks.StatesClean{}).Exec(cc, ids)
	require.Equal(t, cmdblock.ResultComplete, result.Kind)

	goal, err := resource.TryBorrow[states.States[states.Goal]](cc.Resources)
	require.NoError(t, err)
	v, _, hasState := goal.Value().Map.Get("counter")
	require.True(t, hasState)
	assert.Equal(t, counterState{N: 0}, v)
}
