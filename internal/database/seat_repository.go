package database

import (
	"database/sql"
	"fmt"

	"github.com/smartroute/busops-backend/internal/models"
)

// SeatRepository handles database operations for the seats table
type SeatRepository struct {
	db DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// GetByID retrieves a seat by ID
func (r *SeatRepository) GetByID(seatID string) (*models.Seat, error) {
	query := `
		SELECT id, seat_map_id, code, seat_type, floor_no, price_factor
		FROM seats
		WHERE id = $1
	`

	var seat models.Seat
	if err := r.db.Get(&seat, query, seatID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("seat not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch seat: %w", err)
	}

	return &seat, nil
}
