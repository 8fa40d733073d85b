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

// RoomRepository handles room database operations
type RoomRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *sql.DB, logger *zap.Logger) *RoomRepository {
	return &RoomRepository{db: db, logger: logger}
}

// Create inserts a new room, minting its id.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	room.ID = uuid.NewString()
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, room.ID, room.Name, room.Price.String(), room.CreatedAt, room.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create room", zap.Error(err))
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// Update overwrites an existing room.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE rooms SET name = ?, price = ?, updated_at = ? WHERE id = ?
	`, room.Name, room.Price.String(), room.UpdatedAt, room.ID)
	if err != nil {
		r.logger.Error("Failed to update room", zap.String("id", room.ID), zap.Error(err))
		return fmt.Errorf("failed to update room: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID retrieves a room; a missing id yields (nil, nil).
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	var price string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, created_at, updated_at FROM rooms WHERE id = ?
	`, id).Scan(&room.ID, &room.Name, &price, &room.CreatedAt, &room.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get room", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if room.Price, err = scanDecimal(price); err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns all rooms ordered by name.
func (r *RoomRepository) List(ctx context.Context) ([]*models.Room, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, created_at, updated_at FROM rooms ORDER BY name
	`)
	if err != nil {
		r.logger.Error("Failed to list rooms", zap.Error(err))
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		var room models.Room
		var price string
		if err := rows.Scan(&room.ID, &room.Name, &price, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		if room.Price, err = scanDecimal(price); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	return rooms, rows.Err()
}

// Delete removes a room.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete room", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
