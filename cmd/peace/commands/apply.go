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

func newApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Discover state, check sync, and apply the goal",
		Long: `Apply discovers each item's current and goal state, reports whether
current state still matches what was last persisted, runs apply for every
item whose diff is non-empty, and persists the resulting current state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, store, reg, err := buildCmdCtx(cmd.Context())
			if err != nil {
				return err
			}

			execution := cmdexec.New([]cmdblock.Block{
				&blocks.StatesCurrentRead{Storage: store, Registry: reg},
				&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent},
				&blocks.StatesDiscover[states.Goal]{Mode: blocks.DiscoverGoal},
				&blocks.ApplyStateSyncCheck{},
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
				return presentIncomplete(cc, "apply", outcome.Kind.String(), outcome.Errors)
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

			syncReport, err := resource.TryBorrow[blocks.SyncReport](cc.Resources)
			var lines []string
			if err == nil {
				for id, inSync := range syncReport.Value().InSync {
					lines = append(lines, fmt.Sprintf("%s: was in sync before apply = %v", id, inSync))
				}
				syncReport.Release()
			}
			lines = append(lines, fmt.Sprintf("applied %d item(s)", outcome.Value.Len()))
			return cc.Output.Present("apply", lines)
		},
	}

	return cmd
}
