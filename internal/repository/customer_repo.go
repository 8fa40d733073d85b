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

// CustomerRepository handles customer database operations
type CustomerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{db: db, logger: logger}
}

const customerColumns = `id, name, second_name, email, phone_number, street,
	house_number, postal_code, city, extra, twinfield_code, created_at, updated_at`

// Create inserts a new customer, minting its id.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	c.ID = uuid.NewString()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.SecondName, c.Email, c.PhoneNumber, c.Street,
		c.HouseNumber, c.PostalCode, c.City, c.Extra, c.TwinfieldCode,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create customer", zap.Error(err))
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update overwrites an existing customer.
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	c.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE customers SET name = ?, second_name = ?, email = ?,
			phone_number = ?, street = ?, house_number = ?, postal_code = ?,
			city = ?, extra = ?, twinfield_code = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.SecondName, c.Email, c.PhoneNumber, c.Street, c.HouseNumber,
		c.PostalCode, c.City, c.Extra, c.TwinfieldCode, c.UpdatedAt, c.ID)
	if err != nil {
		r.logger.Error("Failed to update customer", zap.String("id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanCustomer(scan func(dest ...any) error) (*models.Customer, error) {
	var c models.Customer
	err := scan(&c.ID, &c.Name, &c.SecondName, &c.Email, &c.PhoneNumber,
		&c.Street, &c.HouseNumber, &c.PostalCode, &c.City, &c.Extra,
		&c.TwinfieldCode, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a customer; a missing id yields (nil, nil).
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get customer", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// List returns all customers ordered by name.
func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Delete removes a customer.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete customer", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
