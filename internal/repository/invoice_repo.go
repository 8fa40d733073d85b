package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hexa-center/book-a-room/internal/models"
	"go.uber.org/zap"
)

// InvoiceRepository handles invoice database operations. The company and
// customer snapshots are stored as JSON blobs; lines live in their own
// table and are deleted with the invoice.
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `id, type, number, date, from_date, to_date, room_name,
	extra, company, customer, terms, booking_id, mailed_on, credited_on, created_at`

// Create inserts an invoice with its lines. The number must already be
// assigned by the caller.
func (r *InvoiceRepository) Create(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.CreatedAt = time.Now()

	company, err := json.Marshal(inv.Company)
	if err != nil {
		return fmt.Errorf("failed to marshal company snapshot: %w", err)
	}
	customer, err := json.Marshal(inv.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer snapshot: %w", err)
	}

	q := on(r.db, tx)
	_, err = q.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, string(inv.Type), inv.Number, inv.Date, inv.From, inv.To,
		inv.RoomName, inv.Extra, string(company), string(customer), inv.Terms,
		inv.BookingID, inv.MailedOn, inv.CreditedOn, inv.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	for i, line := range inv.Lines {
		_, err = q.ExecContext(ctx, `
			INSERT INTO invoice_lines (invoice_id, position, name, unit_price,
				unit_price_without_vat, quantity, total_without_vat, vat,
				vat_percentage, total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, inv.ID, i, line.Name, line.UnitPrice.String(),
			line.UnitPriceWithoutVAT.String(), line.Quantity,
			line.TotalWithoutVAT.String(), line.VAT.String(),
			line.VATPercentage, line.Total.String())
		if err != nil {
			r.logger.Error("Failed to create invoice line", zap.String("invoice_id", inv.ID), zap.Error(err))
			return fmt.Errorf("failed to create invoice line: %w", err)
		}
	}
	return nil
}

func scanInvoice(scan func(dest ...any) error) (*models.Invoice, error) {
	var inv models.Invoice
	var invType, company, customer string

	err := scan(&inv.ID, &invType, &inv.Number, &inv.Date, &inv.From, &inv.To,
		&inv.RoomName, &inv.Extra, &company, &customer, &inv.Terms,
		&inv.BookingID, &inv.MailedOn, &inv.CreditedOn, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	inv.Type = models.InvoiceType(invType)

	if err := json.Unmarshal([]byte(company), &inv.Company); err != nil {
		return nil, fmt.Errorf("failed to unmarshal company snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(customer), &inv.Customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer snapshot: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) lines(ctx context.Context, invoiceID string) ([]models.InvoiceLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, unit_price, unit_price_without_vat, quantity,
			total_without_vat, vat, vat_percentage, total
		FROM invoice_lines WHERE invoice_id = ? ORDER BY position
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []models.InvoiceLine
	for rows.Next() {
		var l models.InvoiceLine
		var unitPrice, unitPriceNet, totalNet, vat, total string
		if err := rows.Scan(&l.Name, &unitPrice, &unitPriceNet, &l.Quantity,
			&totalNet, &vat, &l.VATPercentage, &total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		if l.UnitPrice, err = scanDecimal(unitPrice); err != nil {
			return nil, err
		}
		if l.UnitPriceWithoutVAT, err = scanDecimal(unitPriceNet); err != nil {
			return nil, err
		}
		if l.TotalWithoutVAT, err = scanDecimal(totalNet); err != nil {
			return nil, err
		}
		if l.VAT, err = scanDecimal(vat); err != nil {
			return nil, err
		}
		if l.Total, err = scanDecimal(total); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetByID retrieves an invoice with its lines; a missing id yields
// (nil, nil).
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if inv.Lines, err = r.lines(ctx, id); err != nil {
		return nil, err
	}
	return inv, nil
}

// List returns all invoices with their lines, newest number first.
func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY number DESC`)
}

// ListByBookingID returns the invoices of one booking in creation order.
func (r *InvoiceRepository) ListByBookingID(ctx context.Context, bookingID string) ([]*models.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE booking_id = ? ORDER BY number`, bookingID)
}

func (r *InvoiceRepository) list(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, inv := range invoices {
		if inv.Lines, err = r.lines(ctx, inv.ID); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// SetMailedOn stamps the moment an invoice was mailed.
func (r *InvoiceRepository) SetMailedOn(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	return r.stamp(ctx, tx, `UPDATE invoices SET mailed_on = ? WHERE id = ?`, id, at)
}

// SetCreditedOn marks an invoice as reversed by a credit note.
func (r *InvoiceRepository) SetCreditedOn(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	return r.stamp(ctx, tx, `UPDATE invoices SET credited_on = ? WHERE id = ?`, id, at)
}

func (r *InvoiceRepository) stamp(ctx context.Context, tx *sql.Tx, query, id string, at time.Time) error {
	result, err := on(r.db, tx).ExecContext(ctx, query, at, id)
	if err != nil {
		r.logger.Error("Failed to stamp invoice", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to stamp invoice: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an invoice; its lines go with it.
func (r *InvoiceRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := on(r.db, tx).ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
