package models

import "time"

// Settings is the singleton company profile plus the running invoice
// counter. The counter is incremented exactly once per created invoice,
// credit notes included.
type Settings struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Street      string    `json:"street"`
	HouseNumber string    `json:"house_number"`
	PostalCode  string    `json:"postal_code"`
	City        string    `json:"city"`
	KvkNumber   string    `json:"kvk_number"` // chamber of commerce
	BTWNumber   string    `json:"btw_number"` // VAT registration
	BicCode     string    `json:"bic_code"`
	IBAN        string    `json:"iban"`
	Invoices    int       `json:"invoices"` // running invoice counter
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompanySnapshot freezes the company details for use on an invoice.
func (s *Settings) CompanySnapshot() CompanySnapshot {
	return CompanySnapshot{
		Name:        s.CompanyName,
		Address:     s.Street + " " + s.HouseNumber,
		PostalCode:  s.PostalCode,
		City:        s.City,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		CocNumber:   s.KvkNumber,
		VATNumber:   s.BTWNumber,
		BicCode:     s.BicCode,
		IBAN:        s.IBAN,
	}
}
