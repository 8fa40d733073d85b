package invoice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hexa-center/book-a-room/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTxRunner struct{}

func (m *mockTxRunner) WithTransaction(fn func(*sql.Tx) error) error {
	return fn(nil)
}

type mockBookingStore struct {
	booking      *models.Booking
	attached     []string
	detached     []string
	invoicedTill *time.Time
}

func (m *mockBookingStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if m.booking != nil && m.booking.ID == id {
		return m.booking, nil
	}
	return nil, nil
}

func (m *mockBookingStore) AttachInvoice(ctx context.Context, tx *sql.Tx, bookingID, invoiceID string) error {
	m.attached = append(m.attached, invoiceID)
	return nil
}

func (m *mockBookingStore) DetachInvoice(ctx context.Context, tx *sql.Tx, bookingID, invoiceID string) error {
	m.detached = append(m.detached, invoiceID)
	return nil
}

func (m *mockBookingStore) SetInvoicedTill(ctx context.Context, tx *sql.Tx, bookingID string, till time.Time) error {
	m.invoicedTill = &till
	return nil
}

type mockRoomStore struct {
	room *models.Room
}

func (m *mockRoomStore) GetByID(ctx context.Context, id string) (*models.Room, error) {
	return m.room, nil
}

type mockCustomerStore struct {
	customer *models.Customer
}

func (m *mockCustomerStore) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	return m.customer, nil
}

type mockSettingsStore struct {
	settings *models.Settings
}

func (m *mockSettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	return m.settings, nil
}

func (m *mockSettingsStore) IncrementInvoiceCounter(ctx context.Context, tx *sql.Tx) (int, error) {
	m.settings.Invoices++
	return m.settings.Invoices, nil
}

type mockInvoiceStore struct {
	created    []*models.Invoice
	existing   map[string]*models.Invoice
	creditedOn map[string]time.Time
	mailedOn   map[string]time.Time
	deleted    []string
}

func newMockInvoiceStore() *mockInvoiceStore {
	return &mockInvoiceStore{
		existing:   map[string]*models.Invoice{},
		creditedOn: map[string]time.Time{},
		mailedOn:   map[string]time.Time{},
	}
}

func (m *mockInvoiceStore) Create(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error {
	m.created = append(m.created, inv)
	m.existing[inv.ID] = inv
	return nil
}

func (m *mockInvoiceStore) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	return m.existing[id], nil
}

func (m *mockInvoiceStore) SetMailedOn(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	m.mailedOn[id] = at
	return nil
}

func (m *mockInvoiceStore) SetCreditedOn(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	m.creditedOn[id] = at
	if inv, ok := m.existing[id]; ok {
		inv.CreditedOn = &at
	}
	return nil
}

func (m *mockInvoiceStore) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.existing, id)
	return nil
}

type serviceFixture struct {
	service   *Service
	bookings  *mockBookingStore
	settings  *mockSettingsStore
	invoices  *mockInvoiceStore
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	bookings := &mockBookingStore{booking: testBooking()}
	settings := &mockSettingsStore{settings: &models.Settings{
		ID:          "s-1",
		CompanyName: "Hexa Center",
		Street:      "Stationsstraat",
		HouseNumber: "1",
		PostalCode:  "1234 AB",
		City:        "Amsterdam",
		Invoices:    41,
	}}
	invoices := newMockInvoiceStore()

	svc := NewService(
		&mockTxRunner{},
		bookings,
		&mockRoomStore{room: &models.Room{ID: "r-1", Name: "Room 1", Price: dec("100")}},
		&mockCustomerStore{customer: &models.Customer{
			ID: "c-1", Name: "Jansen BV", Email: "billing@jansen.example",
			Street: "Kade", HouseNumber: "12", PostalCode: "5678 CD", City: "Rotterdam",
		}},
		settings,
		invoices,
		zap.NewNop(),
	).WithClock(func() time.Time { return date(2024, 7, 1) })

	return &serviceFixture{service: svc, bookings: bookings, settings: settings, invoices: invoices}
}

func TestServiceCreateInvoice(t *testing.T) {
	f := newFixture(t)

	inv, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 1), date(2024, 6, 4))
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceTypeNormal, inv.Type)
	assert.Equal(t, "20240042", inv.Number)
	assert.Equal(t, 42, f.settings.settings.Invoices)
	assert.Equal(t, "Hexa Center", inv.Company.Name)
	assert.Equal(t, "Stationsstraat 1", inv.Company.Address)
	assert.Equal(t, "Jansen BV", inv.Customer.Name)
	assert.Equal(t, models.PaymentTerms, inv.Terms)
	require.Len(t, f.invoices.created, 1)
	assert.Equal(t, []string{inv.ID}, f.bookings.attached)
	require.NotNil(t, f.bookings.invoicedTill)
	assert.True(t, f.bookings.invoicedTill.Equal(date(2024, 6, 4)))
}

func TestServiceCreateLastInvoiceIncludesCleaning(t *testing.T) {
	f := newFixture(t)

	inv, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 1), date(2024, 6, 8))
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceTypeLast, inv.Type)
	last := inv.Lines[len(inv.Lines)-1]
	assert.Equal(t, models.LineFinalCleaning, last.Name)
}

func TestServiceCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.bookings.booking.InvoicedTill = date(2024, 6, 4)

	_, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 3), date(2024, 6, 6))
	assert.ErrorIs(t, err, ErrPeriodOverlap)

	// Billing may resume the day after the watermark.
	_, err = f.service.Create(context.Background(), "b-1", date(2024, 6, 5), date(2024, 6, 8))
	assert.NoError(t, err)
}

func TestServiceCreateRejectsPeriodOutsideBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), "b-1", date(2024, 5, 30), date(2024, 6, 4))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = f.service.Create(context.Background(), "b-1", date(2024, 6, 5), date(2024, 6, 9))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = f.service.Create(context.Background(), "b-1", date(2024, 6, 4), date(2024, 6, 4))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestServiceCreateUnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), "missing", date(2024, 6, 1), date(2024, 6, 4))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCreditNote(t *testing.T) {
	f := newFixture(t)

	original, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 1), date(2024, 6, 8))
	require.NoError(t, err)

	credit, err := f.service.CreateCreditNote(context.Background(), original.ID)
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceTypeCredit, credit.Type)
	assert.Equal(t, "20240043", credit.Number)
	assert.Equal(t, original.BookingID, credit.BookingID)
	require.Len(t, credit.Lines, len(original.Lines))
	for i, l := range credit.Lines {
		assert.True(t, l.Total.Equal(original.Lines[i].Total.Neg()), "line %s", l.Name)
		assert.True(t, l.VAT.Equal(original.Lines[i].VAT.Neg()), "line %s", l.Name)
		assert.True(t, l.TotalWithoutVAT.Equal(original.Lines[i].TotalWithoutVAT.Neg()), "line %s", l.Name)
	}
	assert.True(t, credit.Total().Equal(original.Total().Neg()))

	_, credited := f.invoices.creditedOn[original.ID]
	assert.True(t, credited)
	assert.Contains(t, f.bookings.attached, credit.ID)
}

func TestServiceCreditNoteGuards(t *testing.T) {
	f := newFixture(t)

	original, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 1), date(2024, 6, 8))
	require.NoError(t, err)

	credit, err := f.service.CreateCreditNote(context.Background(), original.ID)
	require.NoError(t, err)

	// The original cannot be credited twice.
	_, err = f.service.CreateCreditNote(context.Background(), original.ID)
	assert.ErrorIs(t, err, ErrAlreadyCredited)

	// A credit note can never be credited.
	_, err = f.service.CreateCreditNote(context.Background(), credit.ID)
	assert.ErrorIs(t, err, ErrCreditOfCredit)
}

func TestServiceDeleteRollsBackWatermark(t *testing.T) {
	f := newFixture(t)

	inv, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 1), date(2024, 6, 4))
	require.NoError(t, err)

	err = f.service.Delete(context.Background(), inv.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{inv.ID}, f.invoices.deleted)
	assert.Equal(t, []string{inv.ID}, f.bookings.detached)
	require.NotNil(t, f.bookings.invoicedTill)
	assert.True(t, f.bookings.invoicedTill.Equal(date(2024, 5, 31)))
}

func TestServiceDeleteCreditKeepsWatermark(t *testing.T) {
	f := newFixture(t)

	original, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 1), date(2024, 6, 4))
	require.NoError(t, err)
	credit, err := f.service.CreateCreditNote(context.Background(), original.ID)
	require.NoError(t, err)

	before := *f.bookings.invoicedTill
	err = f.service.Delete(context.Background(), credit.ID)
	require.NoError(t, err)
	assert.True(t, f.bookings.invoicedTill.Equal(before))
}

func TestServiceMarkMailed(t *testing.T) {
	f := newFixture(t)

	inv, err := f.service.Create(context.Background(), "b-1", date(2024, 6, 1), date(2024, 6, 4))
	require.NoError(t, err)

	mailed, err := f.service.MarkMailed(context.Background(), inv.ID)
	require.NoError(t, err)
	require.NotNil(t, mailed.MailedOn)
	assert.True(t, mailed.MailedOn.Equal(date(2024, 7, 1)))

	_, ok := f.invoices.mailedOn[inv.ID]
	assert.True(t, ok)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "20240001", Number(2024, 1))
	assert.Equal(t, "20241234", Number(2024, 1234))
	assert.Equal(t, "202412345", Number(2024, 12345))
}
