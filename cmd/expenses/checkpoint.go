package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/spf13/cobra"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage data checkpoints",
		Long: `Create, list, restore, and delete checkpoints of your data.

Checkpoints save the current state before risky changes such as a bulk import
or a reset, so you can return to it later.`,
		Example: `  # Create a checkpoint before importing statements
  expenses checkpoint create --tag pre-import

  # List all checkpoints
  expenses checkpoint list

  # Restore from a checkpoint
  expenses checkpoint restore pre-import

  # Delete an old checkpoint
  expenses checkpoint delete pre-import`,
	}

	cmd.AddCommand(createCheckpointCmd())
	cmd.AddCommand(listCheckpointsCmd())
	cmd.AddCommand(restoreCheckpointCmd())
	cmd.AddCommand(deleteCheckpointCmd())

	return cmd
}

func createCheckpointCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Hydrating first guarantees there is a saved state to copy
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.db.NewCheckpointManager(store.DefaultSnapshotName).CreateCheckpoint(ctx, tag, description)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			success(cmd.OutOrStdout(), "Created checkpoint %s (%s)", cli.InfoStyle.Render(info.Tag), formatFileSize(info.Size))
			if info.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  Description: %s\n", info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "checkpoint name (default checkpoint-<timestamp>)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the checkpoint is for")

	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all checkpoints",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			db, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			checkpoints, err := db.NewCheckpointManager(store.DefaultSnapshotName).ListCheckpoints(ctx)
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}
			if len(checkpoints) == 0 {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("No checkpoints found."))
				return nil
			}

			rows := make([][]string, 0, len(checkpoints))
			for _, cp := range checkpoints {
				rows = append(rows, []string{
					cp.Tag,
					report.FormatDate(cp.CreatedAt.Local()) + " (" + formatRelativeTime(cp.CreatedAt) + ")",
					formatFileSize(cp.Size),
					cp.Description,
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"NAME", "CREATED", "SIZE", "DESCRIPTION"}, rows))
			return nil
		},
	}
}

func restoreCheckpointCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <tag>",
		Short: "Replace the current data with a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !yes {
				ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx,
					fmt.Sprintf("Replace your current data with checkpoint %q?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Canceled.")
					return nil
				}
			}

			db, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.NewCheckpointManager(store.DefaultSnapshotName).RestoreCheckpoint(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}
			success(out, "Restored checkpoint %s", cli.InfoStyle.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <tag>",
		Aliases: []string{"rm"},
		Short:   "Delete a checkpoint",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.NewCheckpointManager(store.DefaultSnapshotName).DeleteCheckpoint(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}
			success(cmd.OutOrStdout(), "Deleted checkpoint %s", args[0])
			return nil
		},
	}
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
