package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hexa-center/book-a-room/internal/models"
	"go.uber.org/zap"
)

// BookingRepository handles booking database operations
type BookingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{db: db, logger: logger}
}

const bookingColumns = `id, start_date, end_date, room_id, customer_id, btw,
	cleaning_fee, cleaning_fee_vat, parking_fee, parking_fee_vat,
	tourist_tax, price_override, notes, extra_one, extra_two,
	invoiced_till, created_at, updated_at`

// Create inserts a new booking. The invoiced-till watermark starts the
// day before the stay so the first invoice may cover the first night.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	b.ID = uuid.NewString()
	b.InvoicedTill = b.Start.AddDate(0, 0, -1)
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Start, b.End, b.RoomID, b.CustomerID, b.BTW,
		b.CleaningFee.String(), b.CleaningFeeVAT, b.ParkingFee.String(), b.ParkingFeeVAT,
		b.TouristTax.String(), b.PriceOverride.String(), b.Notes, b.ExtraOne, b.ExtraTwo,
		b.InvoicedTill, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create booking", zap.Error(err))
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an existing booking. The
// watermark and invoice list are managed by the invoice lifecycle.
func (r *BookingRepository) Update(ctx context.Context, b *models.Booking) error {
	b.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET start_date = ?, end_date = ?, room_id = ?, customer_id = ?,
			btw = ?, cleaning_fee = ?, cleaning_fee_vat = ?, parking_fee = ?,
			parking_fee_vat = ?, tourist_tax = ?, price_override = ?,
			notes = ?, extra_one = ?, extra_two = ?, updated_at = ?
		WHERE id = ?
	`, b.Start, b.End, b.RoomID, b.CustomerID, b.BTW,
		b.CleaningFee.String(), b.CleaningFeeVAT, b.ParkingFee.String(), b.ParkingFeeVAT,
		b.TouristTax.String(), b.PriceOverride.String(), b.Notes, b.ExtraOne, b.ExtraTwo,
		b.UpdatedAt, b.ID)
	if err != nil {
		r.logger.Error("Failed to update booking", zap.String("id", b.ID), zap.Error(err))
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *BookingRepository) scanBooking(scan func(dest ...any) error) (*models.Booking, error) {
	var b models.Booking
	var cleaningFee, parkingFee, touristTax, priceOverride string

	err := scan(&b.ID, &b.Start, &b.End, &b.RoomID, &b.CustomerID, &b.BTW,
		&cleaningFee, &b.CleaningFeeVAT, &parkingFee, &b.ParkingFeeVAT,
		&touristTax, &priceOverride, &b.Notes, &b.ExtraOne, &b.ExtraTwo,
		&b.InvoicedTill, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if b.CleaningFee, err = scanDecimal(cleaningFee); err != nil {
		return nil, err
	}
	if b.ParkingFee, err = scanDecimal(parkingFee); err != nil {
		return nil, err
	}
	if b.TouristTax, err = scanDecimal(touristTax); err != nil {
		return nil, err
	}
	if b.PriceOverride, err = scanDecimal(priceOverride); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID retrieves a booking with its invoice references; a missing id
// yields (nil, nil).
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := r.scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get booking", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if b.InvoiceIDs, err = r.invoiceIDs(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns all bookings ordered by start date, newest first.
func (r *BookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY start_date DESC`)
	if err != nil {
		r.logger.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := r.scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range bookings {
		if b.InvoiceIDs, err = r.invoiceIDs(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// ListOverlapping returns bookings of a room whose stay intersects the
// given period, excluding one booking id (the one being saved).
func (r *BookingRepository) ListOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE room_id = ? AND id != ? AND start_date < ? AND end_date > ?
	`, roomID, excludeID, end, start)
	if err != nil {
		r.logger.Error("Failed to query overlapping bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := r.scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Delete removes a booking. Its invoices stay behind, orphaned.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete booking", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AttachInvoice links an invoice to a booking.
func (r *BookingRepository) AttachInvoice(ctx context.Context, tx *sql.Tx, bookingID, invoiceID string) error {
	_, err := on(r.db, tx).ExecContext(ctx, `
		INSERT INTO booking_invoices (booking_id, invoice_id) VALUES (?, ?)
	`, bookingID, invoiceID)
	if err != nil {
		r.logger.Error("Failed to attach invoice", zap.String("booking_id", bookingID), zap.Error(err))
		return fmt.Errorf("failed to attach invoice: %w", err)
	}
	return nil
}

// DetachInvoice unlinks an invoice from a booking.
func (r *BookingRepository) DetachInvoice(ctx context.Context, tx *sql.Tx, bookingID, invoiceID string) error {
	_, err := on(r.db, tx).ExecContext(ctx, `
		DELETE FROM booking_invoices WHERE booking_id = ? AND invoice_id = ?
	`, bookingID, invoiceID)
	if err != nil {
		r.logger.Error("Failed to detach invoice", zap.String("booking_id", bookingID), zap.Error(err))
		return fmt.Errorf("failed to detach invoice: %w", err)
	}
	return nil
}

// SetInvoicedTill moves the billing watermark of a booking.
func (r *BookingRepository) SetInvoicedTill(ctx context.Context, tx *sql.Tx, bookingID string, till time.Time) error {
	_, err := on(r.db, tx).ExecContext(ctx, `
		UPDATE bookings SET invoiced_till = ?, updated_at = ? WHERE id = ?
	`, till, time.Now(), bookingID)
	if err != nil {
		r.logger.Error("Failed to set invoiced-till", zap.String("booking_id", bookingID), zap.Error(err))
		return fmt.Errorf("failed to set invoiced-till: %w", err)
	}
	return nil
}

func (r *BookingRepository) invoiceIDs(ctx context.Context, bookingID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT invoice_id FROM booking_invoices WHERE booking_id = ? ORDER BY rowid
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking invoices: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
