package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room represents a bookable room with its gross nightly rate.
type Room struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"` // per night, VAT inclusive
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
