package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/ofx"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import expenses from bank exports",
	}

	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importOFXCmd() *cobra.Command {
	var categoryRef string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ofx [files...]",
		Short: "Import debits from OFX/QFX files as expenses",
		Long: `Import debits from OFX or QFX (Quicken) files exported from your bank.

Every debit becomes an expense in the chosen category. Credits are skipped and
importing the same file twice does not create duplicates.`,
		Example: `  # Import a single statement
  expenses import ofx ~/Downloads/statement_oct.qfx

  # Import every statement in a folder into Bills & Utilities
  expenses import ofx ~/Downloads/bank/*.ofx --category "Bills & Utilities"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(out, "Import")
			ctx := handler.HandleInterrupts(cmd.Context(), true)

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			cat, err := resolveCategory(st, categoryRef)
			if err != nil {
				return err
			}

			slog.Info("Importing OFX files", "file_count", len(files), "category", cat.Name, "dry_run", dryRun)

			parser := ofx.NewParser(slog.Default())
			progress := cli.NewProgress(out, len(files), "Importing")
			var imported, skipped, total int

			for _, path := range files {
				if ctx.Err() != nil {
					break
				}

				expenses, n, err := parseOFXFile(ctx, parser, path, cat.ID)
				progress.Add(1)
				if err != nil {
					slog.Error("Failed to parse OFX file", "file", path, "error", err)
					continue
				}
				skipped += n
				total += len(expenses)

				if dryRun || len(expenses) == 0 {
					continue
				}
				added, err := a.store.ImportExpenses(ctx, expenses)
				if err != nil {
					progress.Finish()
					return fmt.Errorf("failed to import %s: %w", filepath.Base(path), err)
				}
				imported += added
				slog.Info("Processed file",
					"file", filepath.Base(path),
					"debits", len(expenses),
					"added", added,
					"duplicates", len(expenses)-added)
			}
			progress.Finish()

			if handler.WasInterrupted() {
				return nil
			}
			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d debits found, %d entries skipped. Nothing was saved.", total, skipped)))
				return nil
			}
			success(out, "Imported %d new expenses into %s, %d already present, %d entries skipped",
				imported, cat.Name, total-imported, skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryRef, "category", "c", "Other", "category for imported expenses")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the import without saving")

	return cmd
}

// expandFiles expands globs, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				slog.Warn("No files found matching pattern", "pattern", pattern)
				continue
			}
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path, categoryID string) ([]model.Expense, int, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close file", "file", path, "error", err)
		}
	}()

	txns, err := parser.Parse(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if len(txns) == 0 {
		slog.Warn("No transactions found in file", "file", filepath.Base(path))
	}
	expenses, skipped := ofx.ToExpenses(txns, categoryID)
	return expenses, skipped, nil
}
