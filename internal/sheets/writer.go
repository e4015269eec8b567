package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetTitle names the tab created in new spreadsheets.
const SheetTitle = "Expenses"

// Writer exports expenses to Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter authenticates and creates a Google Sheets writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return &Writer{service: srv, logger: common.OrDefault(logger), config: config}, nil
}

// ExportExpenses replaces the sheet contents with a report of expenses.
func (w *Writer) ExportExpenses(ctx context.Context, expenses []model.Expense, categories []model.Category) error {
	w.logger.Info("Starting Google Sheets export", "expenses", len(expenses))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	if err := w.clearSheet(ctx, spreadsheetID); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := BuildRows(expenses, categories)
	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if err := common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err := common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, len(values))
		}, retryOpts)
		if err != nil {
			w.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("Google Sheets export completed", "spreadsheet_id", spreadsheetID, "rows_written", len(values))
	return nil
}

// BuildRows lays out the report: a title, totals, a per-category and a
// per-month breakdown, then every expense newest first.
func BuildRows(expenses []model.Expense, categories []model.Category) [][]any {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b model.Expense) int {
		return b.Date.Compare(a.Date)
	})
	byCategory := report.ByCategory(sorted)
	byMonth := report.ByMonth(sorted)

	values := make([][]any, 0, 16+len(byCategory)+len(byMonth)+len(sorted))

	period := ""
	if len(sorted) > 0 {
		period = fmt.Sprintf("%s - %s",
			sorted[len(sorted)-1].Date.Format("Jan 2, 2006"), sorted[0].Date.Format("Jan 2, 2006"))
	}
	values = append(values,
		[]any{"Expense Report", period},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Spent", report.Total(sorted).InexactFloat64()},
		[]any{"Expenses", len(sorted)},
		[]any{},
		[]any{"Category Breakdown"},
		[]any{"Category", "Count", "Amount"},
	)
	for _, c := range byCategory {
		values = append(values, []any{
			category.Name(categories, c.CategoryID),
			category.CountExpenses(sorted, c.CategoryID),
			c.Amount.InexactFloat64(),
		})
	}

	values = append(values,
		[]any{},
		[]any{"Monthly Totals"},
		[]any{"Month", "Amount"},
	)
	for _, m := range byMonth {
		values = append(values, []any{report.FormatMonth(m.Month), m.Amount.InexactFloat64()})
	}

	values = append(values,
		[]any{},
		[]any{},
		[]any{"Expense Details"},
		[]any{"Date", "Category", "Amount", "Note"},
	)
	for _, e := range sorted {
		values = append(values, []any{
			e.Date.Format(model.DateLayout),
			category.Name(categories, e.CategoryID),
			e.Amount.InexactFloat64(),
			e.Note,
		})
	}
	return values
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		if _, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: SheetTitle}}},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("Created new spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for start := 0; start < len(values); start += w.config.BatchSize {
		end := min(start+w.config.BatchSize, len(values))
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("A%d", start+1), &sheets.ValueRange{
			Values: values[start:end],
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", start+1, err)
		}
		w.logger.Debug("Wrote batch", "start_row", start+1, "rows", end-start)
	}
	return nil
}

// CurrencyPattern is the number format applied to amount cells.
func CurrencyPattern(code string) string {
	if code == "" {
		code = report.DefaultCurrency
	}
	return fmt.Sprintf(`"%s" #,##0.00`, code)
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	bold := func(startRow, endRow, endCol int64, size int64) *sheets.Request {
		return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{StartRowIndex: startRow, EndRowIndex: endRow, EndColumnIndex: endCol},
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				TextFormat: &sheets.TextFormat{Bold: true, FontSize: size},
			}},
			Fields: "userEnteredFormat.textFormat",
		}}
	}

	requests := []*sheets.Request{
		bold(0, 1, 2, 16),
		bold(2, int64(totalRows), 1, 0),
		{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{EndRowIndex: int64(totalRows), StartColumnIndex: 2, EndColumnIndex: 3},
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: CurrencyPattern(w.config.CurrencyCode)},
			}},
			Fields: "userEnteredFormat.numberFormat",
		}},
		{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{Dimension: "COLUMNS", StartIndex: 0, EndIndex: 4},
		}},
		{UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{GridProperties: &sheets.GridProperties{FrozenRowCount: 1}},
			Fields:     "gridProperties.frozenRowCount",
		}},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
