package commands

import (
	"fmt"

	"github.com/openpeace/peace/pkg/blocks"
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/cmdexec"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
	"github.com/spf13/cobra"
)

func newCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Apply each item's from-scratch state",
		Long: `Clean computes each item's "nothing has ever been applied" state via
Item.StateClean, wires it in as the goal, discovers current state, and
applies the diff between them — undoing whatever a prior apply did.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, store, _, err := buildCmdCtx(cmd.Context())
			if err != nil {
				return err
			}

			execution := cmdexec.New([]cmdblock.Block{
				&blocks.StatesClean{},
				&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent},
				&blocks.ApplyExec{},
			}, func(cc *cmdctx.CmdCtx) (states.States[states.Applied], error) {
				borrow, err := resource.TryBorrow[states.States[states.Applied]](cc.Resources)
				if err != nil {
					return states.States[states.Applied]{}, err
				}
				defer borrow.Release()
				return borrow.Value(), nil
			})

			outcome, err := execution.Run(cc)
			if err != nil {
				return err
			}
			if !outcome.IsComplete() {
				return presentIncomplete(cc, "clean", outcome.Kind.String(), outcome.Errors)
			}

			applied := make(map[ident.ItemID]any)
			outcome.Value.Map.Each(func(id ident.ItemID, value any, hasState bool) bool {
				if hasState {
					applied[id] = value
				}
				return true
			})
			if err := store.WriteMap(cc.Ctx, cc.Workspace.StatesCurrentPath(), applied); err != nil {
				return err
			}

			return cc.Output.Present("clean", []string{fmt.Sprintf("cleaned %d item(s)", outcome.Value.Len())})
		},
	}

	return cmd
}
