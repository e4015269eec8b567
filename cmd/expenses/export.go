package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/export"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/sheets"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to a file or Google Sheets",
		Example: `  # Write every expense to expenses-<timestamp>.csv
  expenses export csv

  # Print this month's expenses as JSON
  expenses export json --month 2026-10 --output -

  # Push everything to the configured spreadsheet
  expenses export sheets`,
	}

	cmd.AddCommand(exportFileCmd(export.FormatJSON))
	cmd.AddCommand(exportFileCmd(export.FormatCSV))
	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportFileCmd(format string) *cobra.Command {
	var output, month string

	cmd := &cobra.Command{
		Use:   format,
		Short: fmt.Sprintf("Export expenses as %s", format),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			expenses, err := exportSelection(st, month, a.store)
			if err != nil {
				return err
			}

			if output == "-" {
				return writeExport(cmd.OutOrStdout(), format, expenses, st.Categories)
			}
			if output == "" {
				output = export.Filename(format, a.store.Now())
			}

			f, err := os.Create(config.ExpandPath(output)) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := writeExport(f, format, expenses, st.Categories); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			success(cmd.OutOrStdout(), "Exported %d expenses to %s", len(expenses), cli.InfoStyle.Render(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default expenses-<timestamp>."+format+")")
	cmd.Flags().StringVarP(&month, "month", "m", "", "only export this month (YYYY-MM)")

	return cmd
}

func exportSelection(st store.State, month string, s *store.Store) ([]model.Expense, error) {
	if month == "" {
		return st.RecentExpenses(-1), nil
	}
	m, err := parseMonth(month, s.Now())
	if err != nil {
		return nil, err
	}
	return st.ExpensesInMonth(m), nil
}

func writeExport(w io.Writer, format string, expenses []model.Expense, categories []model.Category) error {
	if format == export.FormatCSV {
		return export.CSV(w, expenses, categories)
	}
	return export.JSON(w, expenses)
}

func exportSheetsCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write expenses to a Google Sheets spreadsheet",
		Long: `Write expenses to a Google Sheets spreadsheet.

Credentials come from the sheets section of the config file or the
GOOGLE_SHEETS_* environment variables. Run 'expenses auth sheets' first when
using OAuth2 client credentials.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return fmt.Errorf("google sheets is not configured: %w", err)
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			expenses, err := exportSelection(st, month, a.store)
			if err != nil {
				return err
			}

			writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to connect to google sheets: %w", err)
			}
			if err := writer.ExportExpenses(ctx, expenses, st.Categories); err != nil {
				return fmt.Errorf("failed to export to google sheets: %w", err)
			}

			success(cmd.OutOrStdout(), "Exported %d expenses to Google Sheets", len(expenses))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "only export this month (YYYY-MM)")

	return cmd
}
