// Package rates computes the financial breakdown of a booking period:
// prorated room price, VAT splits, ancillary fees and credit-note
// inversion. All stored amounts are gross (VAT-inclusive) figures; the
// package splits them into net + VAT at cent precision.
package rates

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoNights is returned when a period covers zero or negative nights.
var ErrNoNights = errors.New("rates: period must cover at least one night")

var hundred = decimal.NewFromInt(100)

// Nights returns the whole-day difference between two dates. Time-of-day
// components are ignored.
func Nights(from, to time.Time) int {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// SameDate reports whether two timestamps fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// VATPortion returns the VAT amount hidden inside a gross total:
// round(gross - gross/(1 + vat/100), 2). A percentage of zero always
// yields zero (the reverse-charged case).
func VATPortion(gross decimal.Decimal, vatPercent int) decimal.Decimal {
	if vatPercent == 0 {
		return decimal.Zero
	}
	divisor := hundred.Add(decimal.NewFromInt(int64(vatPercent))).Div(hundred)
	return gross.Sub(gross.Div(divisor)).Round(2)
}

// Charge is the fully split price of one billed service.
type Charge struct {
	UnitPrice           decimal.Decimal
	UnitPriceWithoutVAT decimal.Decimal
	Quantity            int
	TotalWithoutVAT     decimal.Decimal
	VAT                 decimal.Decimal
	VATPercentage       int
	Total               decimal.Decimal
}

// CalcCharge splits a gross unit price over a quantity: the gross total is
// rounded to the cent first, the VAT portion is carved out of it, and the
// net unit price is derived from the net total.
func CalcCharge(unitPrice decimal.Decimal, quantity int, vatPercent int) Charge {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	vat := VATPortion(total, vatPercent)
	totalWithoutVAT := total.Sub(vat)
	unitPriceWithoutVAT := totalWithoutVAT.Div(decimal.NewFromInt(int64(quantity))).Round(2)

	return Charge{
		UnitPrice:           unitPrice,
		UnitPriceWithoutVAT: unitPriceWithoutVAT,
		Quantity:            quantity,
		TotalWithoutVAT:     totalWithoutVAT,
		VAT:                 vat,
		VATPercentage:       vatPercent,
		Total:               total,
	}
}

// Negate turns a charge into its refund: every monetary figure becomes
// -abs(value). Quantities and percentages keep their sign.
func (c Charge) Negate() Charge {
	c.UnitPrice = c.UnitPrice.Abs().Neg()
	c.UnitPriceWithoutVAT = c.UnitPriceWithoutVAT.Abs().Neg()
	c.TotalWithoutVAT = c.TotalWithoutVAT.Abs().Neg()
	c.VAT = c.VAT.Abs().Neg()
	c.Total = c.Total.Abs().Neg()
	return c
}

// Input describes one invoice period of a booking.
type Input struct {
	IsLastInvoice bool
	Credit        bool
	From          time.Time
	To            time.Time

	RoomNightlyPrice decimal.Decimal
	RoomVATPercent   int

	TouristTaxPerNight decimal.Decimal // always 0% VAT

	CleaningFee        decimal.Decimal // one-off, last invoice only
	CleaningVATPercent int

	ParkingFeePerNight decimal.Decimal
	ParkingVATPercent  int
}

// Breakdown is the calculated charge set for one invoice period. Optional
// categories are nil when the booking does not carry the fee, or, for
// cleaning, when this is not the last invoice of the stay.
type Breakdown struct {
	Nights   int
	Room     Charge
	Tourist  *Charge
	Parking  *Charge
	Cleaning *Charge

	TotalWithoutVAT decimal.Decimal
	VAT             decimal.Decimal
	Total           decimal.Decimal
}

// Negate inverts every monetary figure of the breakdown, line by line.
func (b Breakdown) Negate() Breakdown {
	b.Room = b.Room.Negate()
	if b.Tourist != nil {
		t := b.Tourist.Negate()
		b.Tourist = &t
	}
	if b.Parking != nil {
		p := b.Parking.Negate()
		b.Parking = &p
	}
	if b.Cleaning != nil {
		c := b.Cleaning.Negate()
		b.Cleaning = &c
	}
	b.TotalWithoutVAT = b.TotalWithoutVAT.Abs().Neg()
	b.VAT = b.VAT.Abs().Neg()
	b.Total = b.Total.Abs().Neg()
	return b
}

// Calculate produces the full charge set for an invoice period.
func Calculate(in Input) (Breakdown, error) {
	nights := Nights(in.From, in.To)
	if nights <= 0 {
		return Breakdown{}, ErrNoNights
	}

	out := Breakdown{
		Nights: nights,
		Room:   CalcCharge(in.RoomNightlyPrice, nights, in.RoomVATPercent),
	}

	if in.TouristTaxPerNight.IsPositive() {
		t := CalcCharge(in.TouristTaxPerNight, nights, 0)
		out.Tourist = &t
	}

	if in.ParkingFeePerNight.IsPositive() {
		p := CalcCharge(in.ParkingFeePerNight, nights, in.ParkingVATPercent)
		out.Parking = &p
	}

	if in.CleaningFee.IsPositive() && in.IsLastInvoice {
		c := CalcCharge(in.CleaningFee, 1, in.CleaningVATPercent)
		out.Cleaning = &c
	}

	for _, charge := range []*Charge{&out.Room, out.Tourist, out.Parking, out.Cleaning} {
		if charge == nil {
			continue
		}
		out.Total = out.Total.Add(charge.Total)
		out.VAT = out.VAT.Add(charge.VAT)
	}
	out.TotalWithoutVAT = out.Total.Sub(out.VAT)

	if in.Credit {
		out = out.Negate()
	}

	return out, nil
}
