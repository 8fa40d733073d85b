package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking represents a stay of one customer in one room. Monetary fee
// fields are gross (VAT-inclusive) amounts; per-night fees are multiplied
// by the number of nights at invoice time.
type Booking struct {
	ID             string          `json:"id"`
	Start          time.Time       `json:"start"`
	End            time.Time       `json:"end"`
	RoomID         string          `json:"room_id"`
	CustomerID     string          `json:"customer_id"`
	BTW            int             `json:"btw"` // room VAT percent, 0 = reverse-charged
	CleaningFee    decimal.Decimal `json:"cleaning_fee"`
	CleaningFeeVAT int             `json:"cleaning_fee_vat"`
	ParkingFee     decimal.Decimal `json:"parking_fee"` // per night
	ParkingFeeVAT  int             `json:"parking_fee_vat"`
	TouristTax     decimal.Decimal `json:"tourist_tax"` // per night, always 0% VAT
	PriceOverride  decimal.Decimal `json:"price_override"` // zero = use room price
	Notes          string          `json:"notes"`
	ExtraOne       string          `json:"extra_one"`
	ExtraTwo       string          `json:"extra_two"`
	InvoicedTill   time.Time       `json:"invoiced_till"`
	InvoiceIDs     []string        `json:"invoice_ids"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NightlyPrice returns the gross price per night, honoring the manual
// override when one is set.
func (b *Booking) NightlyPrice(roomPrice decimal.Decimal) decimal.Decimal {
	if b.PriceOverride.IsPositive() {
		return b.PriceOverride
	}
	return roomPrice
}
