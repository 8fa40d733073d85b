package invoice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/hexa-center/book-a-room/internal/rates"
	"go.uber.org/zap"
)

// BookingStore is the booking persistence needed by the lifecycle manager.
type BookingStore interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	AttachInvoice(ctx context.Context, tx *sql.Tx, bookingID, invoiceID string) error
	DetachInvoice(ctx context.Context, tx *sql.Tx, bookingID, invoiceID string) error
	SetInvoicedTill(ctx context.Context, tx *sql.Tx, bookingID string, till time.Time) error
}

// RoomStore resolves the room referenced by a booking.
type RoomStore interface {
	GetByID(ctx context.Context, id string) (*models.Room, error)
}

// CustomerStore resolves the customer referenced by a booking.
type CustomerStore interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

// SettingsStore provides the company profile and the invoice counter.
type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	IncrementInvoiceCounter(ctx context.Context, tx *sql.Tx) (int, error)
}

// InvoiceStore is the invoice persistence needed by the lifecycle manager.
type InvoiceStore interface {
	Create(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	SetMailedOn(ctx context.Context, tx *sql.Tx, id string, at time.Time) error
	SetCreditedOn(ctx context.Context, tx *sql.Tx, id string, at time.Time) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTransaction(fn func(*sql.Tx) error) error
}

// Service manages the invoice lifecycle of bookings: creating period
// invoices, issuing credit notes and keeping the invoiced-till watermark
// consistent. The counter increment, invoice insert and booking update of
// each operation run in a single transaction.
type Service struct {
	db        TxRunner
	bookings  BookingStore
	rooms     RoomStore
	customers CustomerStore
	settings  SettingsStore
	invoices  InvoiceStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new invoice lifecycle service.
func NewService(
	db TxRunner,
	bookings BookingStore,
	rooms RoomStore,
	customers CustomerStore,
	settings SettingsStore,
	invoices InvoiceStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:        db,
		bookings:  bookings,
		rooms:     rooms,
		customers: customers,
		settings:  settings,
		invoices:  invoices,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create bills a sub-period of a booking. The period must lie inside the
// booking and start after the invoiced-till watermark; the watermark
// advances to the period end. When the period closes the stay, the invoice
// becomes the last invoice and includes the one-off cleaning fee.
func (s *Service) Create(ctx context.Context, bookingID string, from, to time.Time) (*models.Invoice, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	if rates.Nights(from, to) < 1 {
		return nil, ErrInvalidPeriod
	}
	if rates.Nights(booking.Start, from) < 0 || rates.Nights(to, booking.End) < 0 {
		return nil, ErrInvalidPeriod
	}
	// The period may only start the day after the last billed date.
	if rates.Nights(booking.InvoicedTill, from) < 1 {
		return nil, ErrPeriodOverlap
	}

	room, err := s.rooms.GetByID(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", ErrNotFound, booking.RoomID)
	}

	customer, err := s.customers.GetByID(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, booking.CustomerID)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	isLast := rates.SameDate(to, booking.End)

	lines, err := BuildLines(booking, room.Price, from, to, isLast, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv := &models.Invoice{
		ID:       uuid.NewString(),
		Type:     models.InvoiceTypeNormal,
		Date:     now,
		From:     from,
		To:       to,
		RoomName: room.Name,
		Extra:    booking.ExtraTwo,
		Company:  settings.CompanySnapshot(),
		Customer: models.CustomerSnapshot{
			Name:        customer.BillingName(booking.ExtraOne),
			Address:     customer.Street + " " + customer.HouseNumber,
			PostalCode:  customer.PostalCode,
			City:        customer.City,
			Email:       customer.Email,
			PhoneNumber: customer.PhoneNumber,
			Extra:       customer.Extra,
		},
		Terms:     models.PaymentTerms,
		BookingID: booking.ID,
		Lines:     lines,
	}
	if isLast {
		inv.Type = models.InvoiceTypeLast
	}

	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		counter, err := s.settings.IncrementInvoiceCounter(ctx, tx)
		if err != nil {
			return err
		}
		inv.Number = Number(now.Year(), counter)

		if err := s.invoices.Create(ctx, tx, inv); err != nil {
			return err
		}
		if err := s.bookings.AttachInvoice(ctx, tx, booking.ID, inv.ID); err != nil {
			return err
		}
		if rates.Nights(booking.InvoicedTill, to) > 0 {
			if err := s.bookings.SetInvoicedTill(ctx, tx, booking.ID, to); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_id", inv.ID),
		zap.String("number", inv.Number),
		zap.String("booking_id", booking.ID),
		zap.String("type", string(inv.Type)))

	return inv, nil
}

// CreateCreditNote reverses an existing invoice: the credit note copies
// the original header and clones every line with negated amounts, and the
// original is marked as credited. A credit note cannot itself be credited.
func (s *Service) CreateCreditNote(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	original, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}
	if original.Type == models.InvoiceTypeCredit {
		return nil, ErrCreditOfCredit
	}
	if original.CreditedOn != nil {
		return nil, ErrAlreadyCredited
	}

	lines := make([]models.InvoiceLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = negateLine(l)
	}

	now := s.now()
	credit := &models.Invoice{
		ID:        uuid.NewString(),
		Type:      models.InvoiceTypeCredit,
		Date:      now,
		From:      original.From,
		To:        original.To,
		RoomName:  original.RoomName,
		Extra:     original.Extra,
		Company:   original.Company,
		Customer:  original.Customer,
		Terms:     original.Terms,
		BookingID: original.BookingID,
		Lines:     lines,
	}

	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		counter, err := s.settings.IncrementInvoiceCounter(ctx, tx)
		if err != nil {
			return err
		}
		credit.Number = Number(now.Year(), counter)

		if err := s.invoices.Create(ctx, tx, credit); err != nil {
			return err
		}
		if err := s.bookings.AttachInvoice(ctx, tx, original.BookingID, credit.ID); err != nil {
			return err
		}
		return s.invoices.SetCreditedOn(ctx, tx, original.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Credit note created",
		zap.String("invoice_id", credit.ID),
		zap.String("number", credit.Number),
		zap.String("credits", original.Number))

	return credit, nil
}

// Delete removes an invoice and detaches it from its booking. For
// non-credit invoices the invoiced-till watermark rolls back to the day
// before the deleted period, freeing the dates for re-billing.
func (s *Service) Delete(ctx context.Context, invoiceID string) error {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}

	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.invoices.Delete(ctx, tx, inv.ID); err != nil {
			return err
		}
		if err := s.bookings.DetachInvoice(ctx, tx, inv.BookingID, inv.ID); err != nil {
			return err
		}
		if inv.Type != models.InvoiceTypeCredit {
			return s.bookings.SetInvoicedTill(ctx, tx, inv.BookingID, inv.From.AddDate(0, 0, -1))
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Invoice deleted",
		zap.String("invoice_id", inv.ID),
		zap.String("number", inv.Number))

	return nil
}

// MarkMailed stamps an invoice as mailed and returns the updated record.
// Mail delivery itself is the caller's concern.
func (s *Service) MarkMailed(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}

	now := s.now()
	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		return s.invoices.SetMailedOn(ctx, tx, inv.ID, now)
	})
	if err != nil {
		return nil, err
	}

	inv.MailedOn = &now
	return inv, nil
}
