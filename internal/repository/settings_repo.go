package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hexa-center/book-a-room/internal/models"
	"go.uber.org/zap"
)

// SettingsRepository handles the singleton settings row. The row is
// seeded by the initial migration.
type SettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

const settingsColumns = `id, company_name, email, phone_number, street,
	house_number, postal_code, city, kvk_number, btw_number, bic_code,
	iban, invoices, updated_at`

// Get loads the settings row.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	err := r.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM settings LIMIT 1`).Scan(
		&s.ID, &s.CompanyName, &s.Email, &s.PhoneNumber, &s.Street,
		&s.HouseNumber, &s.PostalCode, &s.City, &s.KvkNumber, &s.BTWNumber,
		&s.BicCode, &s.IBAN, &s.Invoices, &s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to get settings", zap.Error(err))
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// Update overwrites the company profile. The invoice counter is not
// touched here; it only moves through IncrementInvoiceCounter.
func (r *SettingsRepository) Update(ctx context.Context, s *models.Settings) error {
	s.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		UPDATE settings SET company_name = ?, email = ?, phone_number = ?,
			street = ?, house_number = ?, postal_code = ?, city = ?,
			kvk_number = ?, btw_number = ?, bic_code = ?, iban = ?,
			updated_at = ?
		WHERE id = ?
	`, s.CompanyName, s.Email, s.PhoneNumber, s.Street, s.HouseNumber,
		s.PostalCode, s.City, s.KvkNumber, s.BTWNumber, s.BicCode, s.IBAN,
		s.UpdatedAt, s.ID)
	if err != nil {
		r.logger.Error("Failed to update settings", zap.Error(err))
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// IncrementInvoiceCounter bumps the running invoice counter and returns
// the new value. Run inside the invoice-creation transaction so two
// invoices never share a number.
func (r *SettingsRepository) IncrementInvoiceCounter(ctx context.Context, tx *sql.Tx) (int, error) {
	q := on(r.db, tx)

	if _, err := q.ExecContext(ctx, `
		UPDATE settings SET invoices = invoices + 1, updated_at = ?
	`, time.Now()); err != nil {
		r.logger.Error("Failed to increment invoice counter", zap.Error(err))
		return 0, fmt.Errorf("failed to increment invoice counter: %w", err)
	}

	var counter int
	if err := q.QueryRowContext(ctx, `SELECT invoices FROM settings LIMIT 1`).Scan(&counter); err != nil {
		return 0, fmt.Errorf("failed to read invoice counter: %w", err)
	}
	return counter, nil
}
