// Package export renders the invoice register as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Register writes the invoice administration to an xlsx workbook.
type Register struct {
	logger *zap.Logger
}

// NewRegister creates a new register exporter
func NewRegister(logger *zap.Logger) *Register {
	return &Register{logger: logger}
}

var registerHeader = []string{
	"Number", "Type", "Date", "From", "To", "Room", "Customer",
	"Excl. VAT", "VAT", "Total", "Mailed", "Credited",
}

// Write renders one row per invoice and streams the workbook to w.
func (r *Register) Write(w io.Writer, invoices []*models.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range registerHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		r.setCell(f, sheet, cell, title)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, inv := range invoices {
		row := i + 2
		values := []any{
			inv.Number,
			string(inv.Type),
			inv.Date.Format("2006-01-02"),
			inv.From.Format("2006-01-02"),
			inv.To.Format("2006-01-02"),
			inv.RoomName,
			inv.Customer.Name,
			inv.TotalWithoutVAT().InexactFloat64(),
			inv.TotalVAT().InexactFloat64(),
			inv.Total().InexactFloat64(),
			formatStamp(inv.MailedOn),
			formatStamp(inv.CreditedOn),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			r.setCell(f, sheet, cell, value)
		}
	}

	if err := f.SetColWidth(sheet, "A", "L", 14); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	r.logger.Info("Invoice register exported", zap.Int("invoices", len(invoices)))
	return nil
}

func (r *Register) setCell(f *excelize.File, sheet, cell string, value any) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		r.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
