package commands

import (
	"fmt"

	"github.com/openpeace/peace/internal/vecitem"
	"github.com/openpeace/peace/pkg/blocks"
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/cmdexec"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
	"github.com/spf13/cobra"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Discover current and goal state and compute the diff",
		Long: `Generate an execution plan by discovering each item's current and goal
state and diffing them, without applying anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, _, _, err := buildCmdCtx(cmd.Context())
			if err != nil {
				return err
			}

			execution := cmdexec.New([]cmdblock.Block{
				&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent},
				&blocks.StatesDiscover[states.Goal]{Mode: blocks.DiscoverGoal},
				&blocks.Diff[states.Current, states.Goal]{},
			}, func(cc *cmdctx.CmdCtx) (*states.StateDiffs, error) {
				borrow, err := resource.TryBorrow[*states.StateDiffs](cc.Resources)
				if err != nil {
					return nil, err
				}
				defer borrow.Release()
				return borrow.Value(), nil
			})

			outcome, err := execution.Run(cc)
			if err != nil {
				return err
			}
			if !outcome.IsComplete() {
				return presentIncomplete(cc, "plan", outcome.Kind.String(), outcome.Errors)
			}

			var lines []string
			outcome.Value.Each(func(id ident.ItemID, diff any) bool {
				if d, ok := diff.(vecitem.Diff); ok {
					lines = append(lines, fmt.Sprintf("%s: %s", id, d.String()))
				}
				return true
			})
			if len(lines) == 0 {
				lines = []string{"no changes"}
			}
			return cc.Output.Present("plan", lines)
		},
	}

	return cmd
}
