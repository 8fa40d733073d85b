package invoice

import (
	"time"

	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/hexa-center/book-a-room/internal/rates"
	"github.com/shopspring/decimal"
)

// BuildLines assembles the ordered invoice lines for one billing period of
// a booking: the stay itself, then tourist tax, parking and final cleaning
// when applicable. The cleaning fee appears only on the invoice that
// closes the stay.
func BuildLines(booking *models.Booking, roomPrice decimal.Decimal, from, to time.Time, isLastInvoice, credit bool) ([]models.InvoiceLine, error) {
	breakdown, err := rates.Calculate(rates.Input{
		IsLastInvoice:      isLastInvoice,
		Credit:             credit,
		From:               from,
		To:                 to,
		RoomNightlyPrice:   booking.NightlyPrice(roomPrice),
		RoomVATPercent:     booking.BTW,
		TouristTaxPerNight: booking.TouristTax,
		CleaningFee:        booking.CleaningFee,
		CleaningVATPercent: booking.CleaningFeeVAT,
		ParkingFeePerNight: booking.ParkingFee,
		ParkingVATPercent:  booking.ParkingFeeVAT,
	})
	if err != nil {
		return nil, err
	}

	lines := []models.InvoiceLine{chargeLine(models.LineOvernightStays, breakdown.Room)}
	if breakdown.Tourist != nil {
		lines = append(lines, chargeLine(models.LineTouristTax, *breakdown.Tourist))
	}
	if breakdown.Parking != nil {
		lines = append(lines, chargeLine(models.LineParkingFee, *breakdown.Parking))
	}
	if breakdown.Cleaning != nil {
		lines = append(lines, chargeLine(models.LineFinalCleaning, *breakdown.Cleaning))
	}

	return lines, nil
}

func chargeLine(name string, c rates.Charge) models.InvoiceLine {
	return models.InvoiceLine{
		Name:                name,
		UnitPrice:           c.UnitPrice,
		UnitPriceWithoutVAT: c.UnitPriceWithoutVAT,
		Quantity:            c.Quantity,
		TotalWithoutVAT:     c.TotalWithoutVAT,
		VAT:                 c.VAT,
		VATPercentage:       c.VATPercentage,
		Total:               c.Total,
	}
}

// negateLine turns an invoice line into its refund counterpart.
func negateLine(l models.InvoiceLine) models.InvoiceLine {
	l.UnitPrice = l.UnitPrice.Abs().Neg()
	l.UnitPriceWithoutVAT = l.UnitPriceWithoutVAT.Abs().Neg()
	l.TotalWithoutVAT = l.TotalWithoutVAT.Abs().Neg()
	l.VAT = l.VAT.Abs().Neg()
	l.Total = l.Total.Abs().Neg()
	return l
}
