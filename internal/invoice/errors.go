package invoice

import "errors"

// Domain errors surfaced to the HTTP layer.
var (
	// ErrNotFound is returned when a referenced booking, room, customer or
	// invoice does not exist.
	ErrNotFound = errors.New("invoice: record not found")

	// ErrInvalidPeriod is returned when an invoice period falls outside the
	// booking or covers no nights.
	ErrInvalidPeriod = errors.New("invoice: period invalid for booking")

	// ErrPeriodOverlap is returned when an invoice period overlaps dates
	// already covered by a previous invoice.
	ErrPeriodOverlap = errors.New("invoice: period already invoiced")

	// ErrAlreadyCredited is returned when a credit note is requested for an
	// invoice that has one.
	ErrAlreadyCredited = errors.New("invoice: already credited")

	// ErrCreditOfCredit is returned when a credit note is requested for a
	// credit note.
	ErrCreditOfCredit = errors.New("invoice: cannot credit a credit note")
)
