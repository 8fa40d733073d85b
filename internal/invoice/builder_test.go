package invoice

import (
	"testing"
	"time"

	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/hexa-center/book-a-room/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBooking() *models.Booking {
	return &models.Booking{
		ID:             "b-1",
		Start:          date(2024, 6, 1),
		End:            date(2024, 6, 8),
		RoomID:         "r-1",
		CustomerID:     "c-1",
		BTW:            9,
		CleaningFee:    dec("50"),
		CleaningFeeVAT: 21,
		ParkingFee:     dec("10"),
		ParkingFeeVAT:  21,
		TouristTax:     dec("2.50"),
		InvoicedTill:   date(2024, 5, 31),
	}
}

func TestBuildLinesOrderAndNames(t *testing.T) {
	lines, err := BuildLines(testBooking(), dec("100"), date(2024, 6, 1), date(2024, 6, 8), true, false)
	require.NoError(t, err)

	require.Len(t, lines, 4)
	assert.Equal(t, models.LineOvernightStays, lines[0].Name)
	assert.Equal(t, models.LineTouristTax, lines[1].Name)
	assert.Equal(t, models.LineParkingFee, lines[2].Name)
	assert.Equal(t, models.LineFinalCleaning, lines[3].Name)
}

func TestBuildLinesConditionalFees(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Booking)
		isLast  bool
		want    []string
	}{
		{
			name:   "no optional fees",
			mutate: func(b *models.Booking) { b.TouristTax, b.ParkingFee, b.CleaningFee = decimal.Zero, decimal.Zero, decimal.Zero },
			isLast: true,
			want:   []string{models.LineOvernightStays},
		},
		{
			name:   "cleaning held back before last invoice",
			mutate: func(b *models.Booking) { b.TouristTax, b.ParkingFee = decimal.Zero, decimal.Zero },
			isLast: false,
			want:   []string{models.LineOvernightStays},
		},
		{
			name:   "cleaning on last invoice",
			mutate: func(b *models.Booking) { b.TouristTax, b.ParkingFee = decimal.Zero, decimal.Zero },
			isLast: true,
			want:   []string{models.LineOvernightStays, models.LineFinalCleaning},
		},
		{
			name:   "tourist tax only",
			mutate: func(b *models.Booking) { b.ParkingFee, b.CleaningFee = decimal.Zero, decimal.Zero },
			isLast: false,
			want:   []string{models.LineOvernightStays, models.LineTouristTax},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBooking()
			tt.mutate(b)

			lines, err := BuildLines(b, dec("100"), date(2024, 6, 1), date(2024, 6, 4), tt.isLast, false)
			require.NoError(t, err)

			names := make([]string, len(lines))
			for i, l := range lines {
				names[i] = l.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestBuildLinesInvariants(t *testing.T) {
	lines, err := BuildLines(testBooking(), dec("100"), date(2024, 6, 1), date(2024, 6, 8), true, false)
	require.NoError(t, err)

	for _, l := range lines {
		assert.True(t, l.TotalWithoutVAT.Add(l.VAT).Equal(l.Total), "line %s", l.Name)
		qty := decimal.NewFromInt(int64(l.Quantity))
		assert.True(t, l.UnitPrice.Mul(qty).Round(2).Equal(l.Total), "line %s", l.Name)
	}

	// Tourist tax is always a zero-VAT line.
	assert.Equal(t, 0, lines[1].VATPercentage)
	assert.True(t, lines[1].VAT.IsZero())

	// Cleaning is a one-off.
	assert.Equal(t, 1, lines[3].Quantity)
}

func TestBuildLinesPriceOverride(t *testing.T) {
	b := testBooking()
	b.PriceOverride = dec("80")

	lines, err := BuildLines(b, dec("100"), date(2024, 6, 1), date(2024, 6, 4), false, false)
	require.NoError(t, err)
	assert.True(t, dec("240").Equal(lines[0].Total))
}

func TestBuildLinesCredit(t *testing.T) {
	lines, err := BuildLines(testBooking(), dec("100"), date(2024, 6, 1), date(2024, 6, 8), true, true)
	require.NoError(t, err)

	for _, l := range lines {
		assert.True(t, l.Total.LessThanOrEqual(decimal.Zero), "line %s", l.Name)
		assert.True(t, l.TotalWithoutVAT.LessThanOrEqual(decimal.Zero), "line %s", l.Name)
	}
}

func TestBuildLinesRejectsEmptyPeriod(t *testing.T) {
	_, err := BuildLines(testBooking(), dec("100"), date(2024, 6, 4), date(2024, 6, 4), false, false)
	assert.ErrorIs(t, err, rates.ErrNoNights)
}
