package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags shared by every subcommand.
	workspaceDir string
	profileName  string
	flowName     string
	targetBytes  string
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "peace",
		Short: "Peace - declarative lifecycle management for real-world resources",
		Long: `Peace manages the lifecycle of real-world resources through Items
connected into a Flow.

Every command drives the same demo Flow (one VecCopy item, copying a goal
byte vec onto a destination byte vec) through a CmdExecution:

  - plan:   discover current and goal state, compute the diff
  - apply:  discover state, check sync against what was last persisted,
            apply the diff, persist the new current state
  - clean:  compute each item's from-scratch state and apply towards it
  - status: report whether persisted state still matches live state`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", ".", "workspace root directory")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "default", "profile name")
	rootCmd.PersistentFlags().StringVar(&flowName, "flow", "demo", "flow id")
	rootCmd.PersistentFlags().StringVar(&targetBytes, "target", "", "goal bytes for the demo item, as a literal string")

	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newCleanCommand())
	rootCmd.AddCommand(newStatusCommand())

	return rootCmd
}
