package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType discriminates regular invoices, the final invoice of a stay
// and credit notes.
type InvoiceType string

const (
	InvoiceTypeNormal InvoiceType = "NORMAL"
	InvoiceTypeLast   InvoiceType = "LAST"
	InvoiceTypeCredit InvoiceType = "CREDIT"
)

// Invoice line names as rendered on receipts.
const (
	LineOvernightStays = "Overnight stays"
	LineTouristTax     = "Tourist tax"
	LineParkingFee     = "Parking fee"
	LineFinalCleaning  = "Final cleaning"
)

// PaymentTerms is printed on every invoice.
const PaymentTerms = "We kindly request that you transfer the amount due within 14 days"

// CompanySnapshot holds the issuing company details as they were when the
// invoice was created.
type CompanySnapshot struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	CocNumber   string `json:"coc_number"`
	VATNumber   string `json:"vat_number"`
	BicCode     string `json:"bic_code"`
	IBAN        string `json:"iban"`
}

// CustomerSnapshot holds the billed customer details as they were when the
// invoice was created.
type CustomerSnapshot struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Extra       string `json:"extra"`
}

// InvoiceLine is one billed service on an invoice. All amounts are gross
// unless the name says otherwise; Total == TotalWithoutVAT + VAT.
type InvoiceLine struct {
	Name                string          `json:"name"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	UnitPriceWithoutVAT decimal.Decimal `json:"unit_price_without_vat"`
	Quantity            int             `json:"quantity"`
	TotalWithoutVAT     decimal.Decimal `json:"total_without_vat"`
	VAT                 decimal.Decimal `json:"vat"`
	VATPercentage       int             `json:"vat_percentage"`
	Total               decimal.Decimal `json:"total"`
}

// ReverseCharged reports whether the line's VAT liability is shifted to
// the customer (BTW verlegd). Computed as a plain 0% line.
func (l InvoiceLine) ReverseCharged() bool {
	return l.VATPercentage == 0
}

// Invoice is a billed period of a booking, or the credit note reversing
// one. Company and customer details are snapshots, not references.
type Invoice struct {
	ID         string           `json:"id"`
	Type       InvoiceType      `json:"type"`
	Number     string           `json:"number"`
	Date       time.Time        `json:"date"`
	From       time.Time        `json:"from"`
	To         time.Time        `json:"to"`
	RoomName   string           `json:"room_name"`
	Extra      string           `json:"extra"`
	Company    CompanySnapshot  `json:"company"`
	Customer   CustomerSnapshot `json:"customer"`
	Terms      string           `json:"terms"`
	BookingID  string           `json:"booking_id"`
	Lines      []InvoiceLine    `json:"lines"`
	MailedOn   *time.Time       `json:"mailed_on"`
	CreditedOn *time.Time       `json:"credited_on"`
	CreatedAt  time.Time        `json:"created_at"`
}

// TotalWithoutVAT sums the net totals of all lines.
func (i *Invoice) TotalWithoutVAT() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range i.Lines {
		sum = sum.Add(l.TotalWithoutVAT)
	}
	return sum
}

// TotalVAT sums the VAT amounts of all lines.
func (i *Invoice) TotalVAT() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range i.Lines {
		sum = sum.Add(l.VAT)
	}
	return sum
}

// Total sums the gross totals of all lines.
func (i *Invoice) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range i.Lines {
		sum = sum.Add(l.Total)
	}
	return sum
}
