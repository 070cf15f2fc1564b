// Package cmdctx implements CmdCtx: the bundle of Workspace, Flow,
// Output, Resources, the interrupt handle, and per-item params specs
// handed to every CmdBlock (spec §4.1, §6).
//
// The original crate builds a family of CmdCtx variants (single-profile,
// multi-profile, with/without flow — CmdCtxSpf/CmdCtxMpnf/etc. in
// original_source crate/cmd_ctx) selected by which workspace files a
// command needs to touch. Spec §1 scopes this port to the single-profile,
// single-flow case (the one CmdExecution actually runs against), so
// CmdCtx here is the one concrete struct that case needs rather than a
// builder hierarchy.
package cmdctx

import (
	"context"

	"github.com/openpeace/peace/pkg/flow"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/interrupt"
	"github.com/openpeace/peace/pkg/output"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/workspace"
)

// ParamsSpecs holds a boxed ParamsSpec per item, keyed by ItemID. The
// value is `any` because each item's Spec is generic over that item's own
// Params/Partial pair (pkg/params.Spec[P, PA]); CmdBlocks that need to
// resolve a particular item's params downcast via a type assertion they
// already know the type for (mirroring pkg/item.Interface's erasure).
type ParamsSpecs map[ident.ItemID]any

// CmdCtx is the bundle passed to every CmdBlock.
type CmdCtx struct {
	Ctx         context.Context
	Workspace   *workspace.Workspace
	Flow        *flow.Flow
	Output      output.Output
	Resources   *resource.Map
	Interrupt   *interrupt.Handle
	ParamsSpecs ParamsSpecs
}

// New builds a CmdCtx. Resources starts non-nil but empty; blocks insert
// into it as they discover or load values.
func New(ctx context.Context, ws *workspace.Workspace, fl *flow.Flow, out output.Output) *CmdCtx {
	return &CmdCtx{
		Ctx:         ctx,
		Workspace:   ws,
		Flow:        fl,
		Output:      out,
		Resources:   resource.New(),
		Interrupt:   interrupt.New(),
		ParamsSpecs: make(ParamsSpecs),
	}
}

// WithParamsSpec registers the ParamsSpec for one item.
func (c *CmdCtx) WithParamsSpec(id ident.ItemID, spec any) *CmdCtx {
	c.ParamsSpecs[id] = spec
	return c
}
