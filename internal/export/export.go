// Package export writes expenses as JSON or CSV downloads.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// FilePrefix starts every export file name.
const FilePrefix = "expenses-"

// CSVHeaders is the header row of a CSV export.
var CSVHeaders = []string{"Date", "Category", "Amount", "Note"}

// Filename returns the download name for an export taken at now.
func Filename(format string, now time.Time) string {
	return fmt.Sprintf("%s%d.%s", FilePrefix, now.UnixMilli(), format)
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// JSON writes expenses as an indented JSON array in their stored shape.
func JSON(w io.Writer, expenses []model.Expense) error {
	if expenses == nil {
		expenses = []model.Expense{}
	}
	data, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// CSV writes one row per expense under CSVHeaders. Every cell is quoted and
// rows are separated by a bare newline with none after the last row.
func CSV(w io.Writer, expenses []model.Expense, categories []model.Category) error {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeaders, ","))
	for _, e := range expenses {
		b.WriteByte('\n')
		writeRow(&b, Row(e, categories))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Row returns the display cells of one expense.
func Row(e model.Expense, categories []model.Category) []string {
	return []string{
		report.FormatDate(e.Date),
		category.Name(categories, e.CategoryID),
		e.Amount.String(),
		e.Note,
	}
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}
