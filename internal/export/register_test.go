package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestRegisterWrite(t *testing.T) {
	mailed := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)

	invoices := []*models.Invoice{
		{
			Number:   "20240042",
			Type:     models.InvoiceTypeNormal,
			Date:     time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			From:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			To:       time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
			RoomName: "Room 1",
			Customer: models.CustomerSnapshot{Name: "Jan Jansen"},
			MailedOn: &mailed,
			Lines: []models.InvoiceLine{
				{
					TotalWithoutVAT: decimal.RequireFromString("275.23"),
					VAT:             decimal.RequireFromString("24.77"),
					Total:           decimal.RequireFromString("300"),
				},
			},
		},
		{
			Number: "20240043",
			Type:   models.InvoiceTypeCredit,
			Date:   time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	err := NewRegister(zap.NewNop()).Write(&buf, invoices)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Number", header)

	number, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "20240042", number)
	invType, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, "NORMAL", invType)
	customer, _ := f.GetCellValue(sheet, "G2")
	assert.Equal(t, "Jan Jansen", customer)
	total, _ := f.GetCellValue(sheet, "J2")
	assert.Equal(t, "300", total)
	mailedOn, _ := f.GetCellValue(sheet, "K2")
	assert.Equal(t, "2024-07-02", mailedOn)

	creditNumber, _ := f.GetCellValue(sheet, "A3")
	assert.Equal(t, "20240043", creditNumber)
	credited, _ := f.GetCellValue(sheet, "L3")
	assert.Equal(t, "", credited)
}
