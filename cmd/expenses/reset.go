package main

import (
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var yes, checkpoint bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and start over",
		Long: `Delete every expense, income entry, debt, custom category, budget, goal and
achievement, returning to a first-run state. Assistant settings are kept.

A checkpoint is created first unless --checkpoint=false is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !yes {
				ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Delete ALL your data?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Canceled.")
					return nil
				}
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if checkpoint {
				info, err := a.db.NewCheckpointManager(store.DefaultSnapshotName).CreateCheckpoint(ctx, "", "before reset")
				if err != nil {
					return fmt.Errorf("failed to create checkpoint: %w", err)
				}
				success(out, "Saved checkpoint %s", cli.InfoStyle.Render(info.Tag))
			}

			if err := a.store.Reset(ctx); err != nil {
				return fmt.Errorf("failed to reset: %w", err)
			}
			success(out, "All data deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&checkpoint, "checkpoint", true, "create a checkpoint before resetting")

	return cmd
}
