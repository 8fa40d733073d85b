package rates

import (
	"testing"
	"time"

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

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(date(2024, 6, 1), date(2024, 6, 4)))
	assert.Equal(t, 1, Nights(date(2024, 12, 31), date(2025, 1, 1)))
	assert.Equal(t, 0, Nights(date(2024, 6, 1), date(2024, 6, 1)))
	assert.Equal(t, -2, Nights(date(2024, 6, 3), date(2024, 6, 1)))

	// Time-of-day must not shift the count.
	late := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	early := time.Date(2024, 6, 4, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 3, Nights(late, early))
}

func TestVATPortion(t *testing.T) {
	tests := []struct {
		name    string
		gross   string
		percent int
		want    string
	}{
		{"9 percent room rate", "300", 9, "24.77"},
		{"21 percent cleaning", "50", 21, "8.68"},
		{"21 percent parking", "40", 21, "6.94"},
		{"zero percent is reverse-charged", "123.45", 0, "0"},
		{"zero gross", "0", 21, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VATPortion(dec(tt.gross), tt.percent)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCalcChargeSplitsToTheCent(t *testing.T) {
	// For any charge, net + VAT must reassemble the rounded gross total.
	for nights := 1; nights <= 14; nights++ {
		for _, price := range []string{"100", "87.50", "99.99", "132.35"} {
			for _, pct := range []int{0, 9, 21} {
				c := CalcCharge(dec(price), nights, pct)
				assert.True(t, c.TotalWithoutVAT.Add(c.VAT).Equal(c.Total),
					"price=%s nights=%d vat=%d", price, nights, pct)
				assert.True(t, c.Total.Equal(dec(price).Mul(decimal.NewFromInt(int64(nights))).Round(2)))
			}
		}
	}
}

func TestCalculateRoomOnly(t *testing.T) {
	out, err := Calculate(Input{
		From:             date(2024, 6, 1),
		To:               date(2024, 6, 4),
		RoomNightlyPrice: dec("100"),
		RoomVATPercent:   9,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Nights)
	assert.True(t, dec("300").Equal(out.Room.Total))
	assert.True(t, dec("24.77").Equal(out.Room.VAT))
	assert.True(t, dec("275.23").Equal(out.Room.TotalWithoutVAT))
	assert.Nil(t, out.Tourist)
	assert.Nil(t, out.Parking)
	assert.Nil(t, out.Cleaning)
	assert.True(t, dec("300").Equal(out.Total))
}

func TestCalculateCleaningOnlyOnLastInvoice(t *testing.T) {
	in := Input{
		From:               date(2024, 6, 1),
		To:                 date(2024, 6, 4),
		RoomNightlyPrice:   dec("100"),
		RoomVATPercent:     9,
		CleaningFee:        dec("50"),
		CleaningVATPercent: 21,
	}

	out, err := Calculate(in)
	require.NoError(t, err)
	assert.Nil(t, out.Cleaning, "cleaning must not appear before the last invoice")

	in.IsLastInvoice = true
	out, err = Calculate(in)
	require.NoError(t, err)
	require.NotNil(t, out.Cleaning)
	assert.Equal(t, 1, out.Cleaning.Quantity)
	assert.True(t, dec("50").Equal(out.Cleaning.Total))
	assert.True(t, dec("8.68").Equal(out.Cleaning.VAT))
	assert.True(t, dec("41.32").Equal(out.Cleaning.TotalWithoutVAT))

	// Last invoice with a zero fee still emits no cleaning charge.
	in.CleaningFee = decimal.Zero
	out, err = Calculate(in)
	require.NoError(t, err)
	assert.Nil(t, out.Cleaning)
}

func TestCalculateParkingPerNight(t *testing.T) {
	out, err := Calculate(Input{
		From:               date(2024, 6, 1),
		To:                 date(2024, 6, 5),
		RoomNightlyPrice:   dec("100"),
		RoomVATPercent:     9,
		ParkingFeePerNight: dec("10"),
		ParkingVATPercent:  21,
	})
	require.NoError(t, err)

	require.NotNil(t, out.Parking)
	assert.Equal(t, 4, out.Parking.Quantity)
	assert.True(t, dec("40").Equal(out.Parking.Total))
	assert.True(t, dec("6.94").Equal(out.Parking.VAT))
}

func TestCalculateTouristTaxZeroVAT(t *testing.T) {
	out, err := Calculate(Input{
		From:               date(2024, 6, 1),
		To:                 date(2024, 6, 4),
		RoomNightlyPrice:   dec("100"),
		RoomVATPercent:     9,
		TouristTaxPerNight: dec("2.50"),
	})
	require.NoError(t, err)

	require.NotNil(t, out.Tourist)
	assert.Equal(t, 0, out.Tourist.VATPercentage)
	assert.True(t, out.Tourist.VAT.IsZero())
	assert.True(t, dec("7.50").Equal(out.Tourist.Total))
	assert.True(t, dec("7.50").Equal(out.Tourist.TotalWithoutVAT))
}

func TestCalculateGrandTotals(t *testing.T) {
	out, err := Calculate(Input{
		IsLastInvoice:      true,
		From:               date(2024, 6, 1),
		To:                 date(2024, 6, 4),
		RoomNightlyPrice:   dec("100"),
		RoomVATPercent:     9,
		TouristTaxPerNight: dec("2.50"),
		CleaningFee:        dec("50"),
		CleaningVATPercent: 21,
		ParkingFeePerNight: dec("10"),
		ParkingVATPercent:  21,
	})
	require.NoError(t, err)

	// 300 room + 7.50 tourist + 30 parking + 50 cleaning
	assert.True(t, dec("387.50").Equal(out.Total))
	// 24.77 + 0 + 5.21 + 8.68
	assert.True(t, dec("38.66").Equal(out.VAT))
	assert.True(t, out.TotalWithoutVAT.Add(out.VAT).Equal(out.Total))
}

func TestCalculateCreditInversion(t *testing.T) {
	in := Input{
		IsLastInvoice:      true,
		From:               date(2024, 6, 1),
		To:                 date(2024, 6, 4),
		RoomNightlyPrice:   dec("100"),
		RoomVATPercent:     9,
		TouristTaxPerNight: dec("2.50"),
		CleaningFee:        dec("50"),
		CleaningVATPercent: 21,
	}

	normal, err := Calculate(in)
	require.NoError(t, err)

	in.Credit = true
	credit, err := Calculate(in)
	require.NoError(t, err)

	assert.True(t, credit.Total.Equal(normal.Total.Neg()))
	assert.True(t, credit.VAT.Equal(normal.VAT.Neg()))
	assert.True(t, credit.TotalWithoutVAT.Equal(normal.TotalWithoutVAT.Neg()))
	assert.True(t, credit.Room.Total.Equal(normal.Room.Total.Neg()))
	assert.True(t, credit.Room.VAT.Equal(normal.Room.VAT.Neg()))
	assert.True(t, credit.Room.UnitPriceWithoutVAT.Equal(normal.Room.UnitPriceWithoutVAT.Neg()))
	require.NotNil(t, credit.Cleaning)
	assert.True(t, credit.Cleaning.Total.Equal(normal.Cleaning.Total.Neg()))
	require.NotNil(t, credit.Tourist)
	assert.True(t, credit.Tourist.Total.Equal(normal.Tourist.Total.Neg()))
}

func TestCalculateCreditOfRoomOnlyInvoice(t *testing.T) {
	out, err := Calculate(Input{
		Credit:           true,
		From:             date(2024, 6, 1),
		To:               date(2024, 6, 4),
		RoomNightlyPrice: dec("100"),
		RoomVATPercent:   9,
	})
	require.NoError(t, err)

	assert.True(t, dec("-300").Equal(out.Room.Total))
	assert.True(t, dec("-24.77").Equal(out.Room.VAT))
}

func TestCalculateRejectsEmptyPeriod(t *testing.T) {
	_, err := Calculate(Input{
		From:             date(2024, 6, 4),
		To:               date(2024, 6, 4),
		RoomNightlyPrice: dec("100"),
		RoomVATPercent:   9,
	})
	assert.ErrorIs(t, err, ErrNoNights)

	_, err = Calculate(Input{
		From:             date(2024, 6, 4),
		To:               date(2024, 6, 1),
		RoomNightlyPrice: dec("100"),
		RoomVATPercent:   9,
	})
	assert.ErrorIs(t, err, ErrNoNights)
}
