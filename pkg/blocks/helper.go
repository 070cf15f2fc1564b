// Package blocks implements the concrete CmdBlocks spec §4.5 lists:
// ParamsSpecsLoad, StatesDiscover (Current/Goal), StatesCurrentRead, Diff,
// ApplyStateSyncCheck, ApplyExec, and the supplemented StatesClean
// (original_source workspace_tests/src/rt/clean_cmd.rs). Each block drives
// its per-item work through pkg/cmdblock.RunItems against the flow's
// boxed item.Interface values, resolving each item's params via its
// registered pkg/params.ResolvableSpec.
package blocks

import (
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/item"
	"github.com/openpeace/peace/pkg/params"
	"github.com/openpeace/peace/pkg/perr"
)

// fnCtxFor builds the FnCtx a block threads into every item lifecycle
// call, sharing cc's interrupt handle and context but not its progress
// channel (that's handed out by Output, fetched once per block rather
// than per item).
func fnCtxFor(cc *cmdctx.CmdCtx) item.FnCtx {
	var progress chan<- item.ProgressUpdate
	if cc.Output != nil {
		progress = cc.Output.Progress()
	}
	return item.FnCtx{Ctx: cc.Ctx, Interrupt: cc.Interrupt, Progress: progress}
}

// resolvableSpec downcasts the boxed ParamsSpec registered for id to the
// erased interface pkg/params.Spec[P, PA] implements.
func resolvableSpec(cc *cmdctx.CmdCtx, id ident.ItemID) (params.ResolvableSpec, error) {
	boxed, ok := cc.ParamsSpecs[id]
	if !ok {
		return nil, perr.NewValueNotFound("ParamsSpec[" + id.String() + "]")
	}
	spec, ok := boxed.(params.ResolvableSpec)
	if !ok {
		return nil, perr.NewValueNotFound("ResolvableSpec[" + id.String() + "]")
	}
	return spec, nil
}

// resolvePartial resolves id's best-effort partial params.
func resolvePartial(cc *cmdctx.CmdCtx, id ident.ItemID) (any, error) {
	spec, err := resolvableSpec(cc, id)
	if err != nil {
		return nil, err
	}
	return spec.ResolvePartialAny(cc.Resources, perr.NewResolutionCtx(id.String()))
}

// resolveFull resolves id's fully resolved params, failing if any
// referenced resource is missing or conflictingly borrowed.
func resolveFull(cc *cmdctx.CmdCtx, id ident.ItemID) (any, error) {
	spec, err := resolvableSpec(cc, id)
	if err != nil {
		return nil, err
	}
	return spec.ResolveAny(cc.Resources, perr.NewResolutionCtx(id.String()))
}

// boxedItem fetches id's type-erased item.Interface from cc.Flow's graph.
func boxedItem(cc *cmdctx.CmdCtx, id ident.ItemID) (item.Interface, error) {
	boxed, ok := cc.Flow.Graph().Item(id)
	if !ok {
		return nil, perr.NewInvalidIdentifier(id.String(), "item not present in flow")
	}
	return boxed, nil
}

// runOptionsFrom returns the zero RunOptions, so RunItems uses its own
// GOMAXPROCS default. CmdCtx carries no worker-pool setting and cc is
// not read.
func runOptionsFrom(cc *cmdctx.CmdCtx) cmdblock.RunOptions {
	return cmdblock.RunOptions{}
}
