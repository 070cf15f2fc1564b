package cmdexec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/telemetry"
)

// Execution is an ordered list of CmdBlocks plus a final projection of the
// ResourceMap into T (spec §4.6: "CmdExecution<T, E> is an ordered list of
// boxed CmdBlocks plus a final projection reduce(ResourceMap) -> T").
type Execution[T any] struct {
	blocks []cmdblock.Block
	descs  []BlockDesc
	reduce func(cc *cmdctx.CmdCtx) (T, error)
}

// New builds an Execution over blocks, running reduce against the final
// CmdCtx on the happy path.
func New[T any](blocks []cmdblock.Block, reduce func(cc *cmdctx.CmdCtx) (T, error)) *Execution[T] {
	return &Execution[T]{
		blocks: blocks,
		descs:  descsOf(blocks),
		reduce: reduce,
	}
}

// Run drives cc's blocks in order (spec §4.6 steps 1-4):
//
//  1. before each block, check the interrupt signal;
//  2. preflight the block's declared inputs;
//  3. run the block;
//  4. loop — the block's own Exec persists its Outcome into cc.Resources.
//
// itemIDs is the order item work is offered to each block's stream; it is
// computed once from cc.Flow's topological order, since within a block
// there is no ordering guarantee beyond what RunItems' queue provides
// (spec §5).
func (e *Execution[T]) Run(cc *cmdctx.CmdCtx) (CmdOutcome[T], error) {
	runID := uuid.New()
	runIDStr := runID.String()
	flowID := string(cc.Flow.ID())

	telCtx := telemetry.WithRunContext(cc.Ctx, runIDStr, flowID)
	cc.Ctx = telCtx

	itemIDs, err := e.itemIDs(cc)
	if err != nil {
		telemetry.EndRunContext(telCtx, runIDStr, "failed", err)
		return CmdOutcome[T]{}, err
	}

	executionName := fmt.Sprintf("CmdExecution[%s]", reflect.TypeOf((*T)(nil)).Elem().String())
	outcomeTypeName := reflect.TypeOf((*T)(nil)).Elem().String()

	for i, block := range e.blocks {
		if cc.Interrupt != nil && cc.Interrupt.Triggered() {
			out := ExecutionInterrupted[T](e.descs[:i], e.descs[i:])
			out.RunID = runID
			telemetry.EndRunContext(telCtx, runIDStr, "interrupted", nil)
			return out, nil
		}

		if err := block.CheckInputs(cc.Resources); err != nil {
			var unavailable *cmdblock.InputUnavailable
			shortName, fullName := "", ""
			if errors.As(err, &unavailable) {
				shortName, fullName = unavailable.ShortName, unavailable.FullName
			}
			diag := BuildInputFetchError(executionName, outcomeTypeName, e.descs, i, shortName, fullName)
			diag.WithDetail("run_id", runID)
			telemetry.EndRunContext(telCtx, runIDStr, "failed", diag)
			return CmdOutcome[T]{}, diag
		}

		blockCtx := telemetry.WithBlockContext(telCtx, runIDStr, e.descs[i].Name)
		result := block.Exec(cc, itemIDs)
		switch result.Kind {
		case cmdblock.ResultComplete:
			telemetry.EndBlockContext(blockCtx, runIDStr, e.descs[i].Name, "", "succeeded", nil)
			continue
		case cmdblock.ResultInterrupted:
			out := BlockInterrupted[T](result.Stream, e.descs[:i], e.descs[i:])
			out.RunID = runID
			telemetry.EndBlockContext(blockCtx, runIDStr, e.descs[i].Name, "", "interrupted", nil)
			telemetry.EndRunContext(telCtx, runIDStr, "interrupted", nil)
			return out, nil
		case cmdblock.ResultItemError:
			out := ItemError[T](result.Stream, e.descs[:i], e.descs[i:], result.Errors)
			out.RunID = runID
			telemetry.EndBlockContext(blockCtx, runIDStr, e.descs[i].Name, firstItemID(result.Errors), "failed", firstErr(result.Errors))
			telemetry.EndRunContext(telCtx, runIDStr, "failed", firstErr(result.Errors))
			return out, nil
		}
	}

	value, err := e.reduce(cc)
	if err != nil {
		telemetry.EndRunContext(telCtx, runIDStr, "failed", err)
		return CmdOutcome[T]{}, err
	}
	out := Complete(value, e.descs)
	out.RunID = runID
	telemetry.EndRunContext(telCtx, runIDStr, "succeeded", nil)
	return out, nil
}

// firstItemID returns an arbitrary item ID from errs for use as a single
// representative item in block-failure telemetry; CmdBlock.Exec may fail
// on several items at once, but EndBlockContext records one.
func firstItemID(errs map[ident.ItemID]error) string {
	for id := range errs {
		return string(id)
	}
	return ""
}

func firstErr(errs map[ident.ItemID]error) error {
	for _, err := range errs {
		return err
	}
	return nil
}

// itemIDs returns cc.Flow's items in topological order (a valid order
// satisfying every Logic/Contains edge; blocks that don't care about
// ordering simply ignore it).
func (e *Execution[T]) itemIDs(cc *cmdctx.CmdCtx) ([]ident.ItemID, error) {
	items, err := cc.Flow.Graph().TopoOrder()
	if err != nil {
		return nil, err
	}
	ids := make([]ident.ItemID, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	return ids, nil
}
