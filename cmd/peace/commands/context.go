package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/openpeace/peace/internal/vecitem"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/flow"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/output"
	"github.com/openpeace/peace/pkg/params"
	"github.com/openpeace/peace/pkg/storage"
	"github.com/openpeace/peace/pkg/typereg"
	"github.com/openpeace/peace/pkg/workspace"
)

// appName scopes every command's persisted state under
// <workspace>/.peace/peace, per pkg/workspace's on-disk layout.
const appName = "peace"

// buildCmdCtx assembles the CmdCtx every subcommand drives a
// cmdexec.Execution against: a single-item Flow wrapping the demo
// VecCopy item, its params fixed to whatever --target was given, and a
// Storage/Registry pair for reading and writing its persisted state.
func buildCmdCtx(ctx context.Context) (*cmdctx.CmdCtx, *storage.Storage, *typereg.Registry[ident.ItemID], error) {
	profile, err := ident.NewProfile(profileName)
	if err != nil {
		return nil, nil, nil, err
	}
	flowID, err := ident.NewFlowID(flowName)
	if err != nil {
		return nil, nil, nil, err
	}

	ws := workspace.New(workspaceDir, appName, profile, flowID)

	it := vecitem.NewDefault()
	boxed := vecitem.Wrap(it)

	graph := flow.NewGraph()
	if err := graph.AddItem(boxed); err != nil {
		return nil, nil, nil, err
	}
	fl := flow.New(flowID, graph)

	out := output.NewWriter(os.Stdout, 16)
	cc := cmdctx.New(ctx, ws, fl, out)

	if err := boxed.Setup(cc.Resources); err != nil {
		return nil, nil, nil, err
	}

	spec := params.OfValue[vecitem.Params, vecitem.Partial](vecitem.Params{Target: []byte(targetBytes)})
	cc.WithParamsSpec(vecitem.IDDefault, spec)

	reg := typereg.New[ident.ItemID]()
	typereg.Register[ident.ItemID, vecitem.State](reg, vecitem.IDDefault)

	return cc, storage.New(), reg, nil
}

// presentIncomplete reports a CmdOutcome that stopped short of
// OutcomeComplete: interrupted execution or a block that produced
// per-item errors. It writes a summary through cc.Output before
// returning the error RunE surfaces as the process's exit status.
func presentIncomplete(cc *cmdctx.CmdCtx, command, kind string, errs map[ident.ItemID]error) error {
	lines := []string{fmt.Sprintf("outcome: %s", kind)}
	for id, err := range errs {
		lines = append(lines, fmt.Sprintf("%s: %s", id, err))
	}
	_ = cc.Output.Present(command, lines)

	if len(errs) > 0 {
		return fmt.Errorf("%s: %d item(s) failed", command, len(errs))
	}
	return fmt.Errorf("%s: %s", command, kind)
}
