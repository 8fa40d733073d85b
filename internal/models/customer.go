package models

import "time"

// Customer represents a guest or company that can be billed. Customers are
// copied by value onto invoices at creation time, so later edits never
// change historical invoices.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SecondName    string    `json:"second_name"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	Street        string    `json:"street"`
	HouseNumber   string    `json:"house_number"`
	PostalCode    string    `json:"postal_code"`
	City          string    `json:"city"`
	Extra         string    `json:"extra"`
	TwinfieldCode string    `json:"twinfield_code"` // customer dimension in the accounting system
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BillingName returns the name as it appears on invoices: the customer
// name, suffixed with the booking-level extra or the second name when set.
func (c *Customer) BillingName(bookingExtra string) string {
	suffix := bookingExtra
	if suffix == "" {
		suffix = c.SecondName
	}
	if suffix == "" {
		return c.Name
	}
	return c.Name + " - " + suffix
}
