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

// statusReport is status's reduced outcome: per item, whether a stored
// state exists and whether it still matches freshly discovered current
// state.
type statusReport struct {
	inSync map[ident.ItemID]bool
}

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether persisted state still matches live state",
		Long: `Status reads each item's last-persisted current state without
re-applying anything, discovers its live current state, and reports
whether the two still match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, store, reg, err := buildCmdCtx(cmd.Context())
			if err != nil {
				return err
			}

			execution := cmdexec.New([]cmdblock.Block{
				&blocks.StatesCurrentRead{Storage: store, Registry: reg},
				&blocks.StatesDiscover[states.Current]{Mode: blocks.DiscoverCurrent},
			}, func(cc *cmdctx.CmdCtx) (statusReport, error) {
				storedBorrow, err := resource.TryBorrow[states.States[states.CurrentStored]](cc.Resources)
				if err != nil {
					return statusReport{}, err
				}
				defer storedBorrow.Release()
				currentBorrow, err := resource.TryBorrow[states.States[states.Current]](cc.Resources)
				if err != nil {
					return statusReport{}, err
				}
				defer currentBorrow.Release()

				stored, current := storedBorrow.Value(), currentBorrow.Value()
				report := statusReport{inSync: make(map[ident.ItemID]bool)}
				current.Map.Each(func(id ident.ItemID, currentVal any, hasCurrent bool) bool {
					storedVal, hasStoredEntry, hasStored := stored.Map.Get(id)
					if !hasCurrent || !hasStoredEntry || !hasStored {
						return true
					}
					it, ok := cc.Flow.Graph().Item(id)
					if !ok {
						return true
					}
					report.inSync[id] = it.StateEqual(storedVal, currentVal)
					return true
				})
				return report, nil
			})

			outcome, err := execution.Run(cc)
			if err != nil {
				return err
			}
			if !outcome.IsComplete() {
				return presentIncomplete(cc, "status", outcome.Kind.String(), outcome.Errors)
			}

			var lines []string
			if len(outcome.Value.inSync) == 0 {
				lines = append(lines, "no persisted state to compare against (never applied)")
			}
			for id, inSync := range outcome.Value.inSync {
				lines = append(lines, fmt.Sprintf("%s: in sync = %v", id, inSync))
			}
			return cc.Output.Present("status", lines)
		},
	}

	return cmd
}
