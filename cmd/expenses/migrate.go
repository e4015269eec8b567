package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/migration"
	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the database and saved data",
		Long: `Bring the database schema and the saved data up to date.

Older data, such as expenses that stored a category name instead of a
category id, is converted to the current format. Every other command does
this automatically; run it explicitly to see what changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			db, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			schema, err := db.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			before, err := snapshotVersion(cmd, db)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Database: %s\n", db.Path())
			fmt.Fprintf(out, "Schema version: %d (latest %d)\n", schema, storage.ExpectedSchemaVersion)
			fmt.Fprintf(out, "Data version: %s (latest %s)\n", before, migration.CurrentVersion)
			if status {
				return nil
			}

			slog.Info("Starting data migration", "database", db.Path(), "from_version", before)
			s := store.New(db, store.WithLogger(slog.Default()))
			if err := s.Hydrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate saved data: %w", err)
			}

			switch before {
			case migration.CurrentVersion:
				success(out, "Already up to date")
				return nil
			case "none":
				success(out, "Initialized data at version %s", migration.CurrentVersion)
				return nil
			}
			success(out, "Migrated data from %s to %s", before, migration.CurrentVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show versions without migrating")

	return cmd
}

func snapshotVersion(cmd *cobra.Command, db *storage.SQLiteStorage) (string, error) {
	data, err := db.LoadSnapshot(cmd.Context(), store.DefaultSnapshotName)
	if errors.Is(err, common.ErrNotFound) {
		return "none", nil
	}
	if err != nil {
		return "", err
	}
	snap, err := migration.Decode(data)
	if err != nil {
		return "", err
	}
	if snap.Version == "" {
		return "legacy", nil
	}
	return snap.Version, nil
}
