package cmdexec_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/cmdexec"
	"github.com/openpeace/peace/pkg/flow"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/output"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vecA struct{ n int }
type vecB struct{ n int }

// loadBlock inserts a vecA into the resource map unconditionally — the
// stand-in for ParamsSpecsLoad/StatesDiscover in this test fixture.
type loadBlock struct{ n int }

func (b *loadBlock) Desc() string               { return "loadBlock" }
func (b *loadBlock) InputNamesShort() []string   { return nil }
func (b *loadBlock) InputNamesFull() []string    { return nil }
func (b *loadBlock) OutcomeNamesShort() []string { return []string{"vecA"} }
func (b *loadBlock) OutcomeNamesFull() []string  { return []string{"cmdexec_test.vecA"} }
func (b *loadBlock) CheckInputs(rm *resource.Map) error { return nil }
func (b *loadBlock) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	resource.Insert(cc.Resources, vecA{n: b.n})
	return cmdblock.Complete(nil)
}

// copyBlock requires vecA and produces vecB, the stand-in for an apply
// block that consumes what an earlier block discovered.
type copyBlock struct{}

func (b *copyBlock) Desc() string               { return "copyBlock" }
func (b *copyBlock) InputNamesShort() []string   { return []string{"vecA"} }
func (b *copyBlock) InputNamesFull() []string    { return []string{"cmdexec_test.vecA"} }
func (b *copyBlock) OutcomeNamesShort() []string { return []string{"vecB"} }
func (b *copyBlock) OutcomeNamesFull() []string  { return []string{"cmdexec_test.vecB"} }
func (b *copyBlock) CheckInputs(rm *resource.Map) error {
	return cmdblock.CheckResourcePresent[vecA](rm)
}
func (b *copyBlock) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	borrow, err := resource.TryBorrow[vecA](cc.Resources)
	if err != nil {
		return cmdblock.ItemErr(cmdblock.NewItemStreamOutcome(nil), map[ident.ItemID]error{"x": err})
	}
	v := borrow.Value()
	borrow.Release()
	resource.Insert(cc.Resources, vecB{n: v.n})
	return cmdblock.Complete(nil)
}

// interruptedBlock always reports mid-stream interruption.
type interruptedBlock struct{}

func (b *interruptedBlock) Desc() string               { return "interruptedBlock" }
func (b *interruptedBlock) InputNamesShort() []string   { return nil }
func (b *interruptedBlock) InputNamesFull() []string    { return nil }
func (b *interruptedBlock) OutcomeNamesShort() []string { return nil }
func (b *interruptedBlock) OutcomeNamesFull() []string  { return nil }
func (b *interruptedBlock) CheckInputs(rm *resource.Map) error { return nil }
func (b *interruptedBlock) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	stream := cmdblock.NewItemStreamOutcome(nil)
	stream.Processed = itemIDs[:0]
	stream.NotProcessed = itemIDs
	return cmdblock.Interrupted(stream)
}

func newCmdCtx(t *testing.T) *cmdctx.CmdCtx {
	t.Helper()
	ws := workspace.New(t.TempDir(), "peace", "default", "demo")
	g := flow.NewGraph()
	fl := flow.New("demo", g)
	out := output.NewWriter(nil, 4)
	return cmdctx.New(context.Background(), ws, fl, out)
}

func TestExecutionRunsBlocksInOrderAndPersistsOutcomes(t *testing.T) {
	cc := newCmdCtx(t)
	exec := cmdexec.New[int](
		[]cmdblock.Block{&loadBlock{n: 7}, &copyBlock{}},
		func(cc *cmdctx.CmdCtx) (int, error) {
			b, err := resource.TryBorrow[vecB](cc.Resources)
			if err != nil {
				return 0, err
			}
			defer b.Release()
			return b.Value().n, nil
		},
	)

	outcome, err := exec.Run(cc)
	require.NoError(t, err)
	assert.True(t, outcome.IsComplete())
	assert.Equal(t, 7, outcome.Value)
	assert.Len(t, outcome.ProcessedBlocks, 2)
	assert.NotEqual(t, uuid.Nil, outcome.RunID)
}

func TestExecutionReturnsInputFetchDiagnosticWhenInputMissing(t *testing.T) {
	cc := newCmdCtx(t)
	exec := cmdexec.New[int](
		[]cmdblock.Block{&copyBlock{}}, // vecA never inserted
		func(cc *cmdctx.CmdCtx) (int, error) { return 0, nil },
	)

	_, err := exec.Run(cc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vecA")
}

func TestExecutionStopsOnExecutionInterruptedBetweenBlocks(t *testing.T) {
	cc := newCmdCtx(t)
	cc.Interrupt.Trigger()
	exec := cmdexec.New[int](
		[]cmdblock.Block{&loadBlock{n: 1}, &copyBlock{}},
		func(cc *cmdctx.CmdCtx) (int, error) { return 0, nil },
	)

	outcome, err := exec.Run(cc)
	require.NoError(t, err)
	assert.Equal(t, cmdexec.OutcomeExecutionInterrupted, outcome.Kind)
	assert.True(t, outcome.IsInterrupted())
	assert.Empty(t, outcome.ProcessedBlocks)
	assert.Len(t, outcome.NotProcessedBlocks, 2)
}

func TestExecutionStopsOnBlockInterrupted(t *testing.T) {
	cc := newCmdCtx(t)
	exec := cmdexec.New[int](
		[]cmdblock.Block{&interruptedBlock{}},
		func(cc *cmdctx.CmdCtx) (int, error) { return 0, nil },
	)

	outcome, err := exec.Run(cc)
	require.NoError(t, err)
	assert.Equal(t, cmdexec.OutcomeBlockInterrupted, outcome.Kind)
	assert.True(t, outcome.IsInterrupted())
}

func TestMapOutcomePreservesKindAndTransformsValue(t *testing.T) {
	o := cmdexec.Complete(3, nil)
	mapped := cmdexec.MapOutcome(o, func(n int) string { return "n=3" })
	assert.Equal(t, "n=3", mapped.Value)
	assert.True(t, mapped.IsComplete())
}

func TestTransposeUnwrapsOkAndPropagatesErr(t *testing.T) {
	ok := cmdexec.Complete(cmdexec.ResultT[int]{Value: 5}, nil)
	unwrapped, err := cmdexec.Transpose(ok)
	require.NoError(t, err)
	assert.Equal(t, 5, unwrapped.Value)

	failing := cmdexec.Complete(cmdexec.ResultT[int]{Err: assert.AnError}, nil)
	_, err = cmdexec.Transpose(failing)
	assert.ErrorIs(t, err, assert.AnError)
}
