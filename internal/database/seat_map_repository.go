package database

import "fmt"

// SeatMapRepository exposes aggregate price-factor views over a seat map.
// Both lookups are single queries over the whole map; callers must never fall
// back to per-seat or per-floor probing.
type SeatMapRepository struct {
	db DB
}

// NewSeatMapRepository creates a new SeatMapRepository
func NewSeatMapRepository(db DB) *SeatMapRepository {
	return &SeatMapRepository{db: db}
}

// GetSeatTypeFactors returns the seat-type to price-factor mapping of a seat
// map in one query. Seat types whose seats carry no factor map to the neutral
// multiplier 1.
func (r *SeatMapRepository) GetSeatTypeFactors(seatMapID string) (map[string]float64, error) {
	query := `
		SELECT seat_type, COALESCE(MAX(price_factor), 1) AS factor
		FROM seats
		WHERE seat_map_id = $1
		GROUP BY seat_type
	`

	rows, err := r.db.Query(query, seatMapID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seat type factors: %w", err)
	}
	defer rows.Close()

	factors := make(map[string]float64)
	for rows.Next() {
		var seatType string
		var factor float64
		if err := rows.Scan(&seatType, &factor); err != nil {
			return nil, fmt.Errorf("failed to scan seat type factor: %w", err)
		}
		factors[seatType] = factor
	}

	return factors, rows.Err()
}

// GetFloorFactors returns the floor-number to price-factor mapping of a seat
// map in one query.
func (r *SeatMapRepository) GetFloorFactors(seatMapID string) (map[int]float64, error) {
	query := `
		SELECT floor_no, COALESCE(price_factor, 1) AS factor
		FROM seat_map_floors
		WHERE seat_map_id = $1
	`

	rows, err := r.db.Query(query, seatMapID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch floor factors: %w", err)
	}
	defer rows.Close()

	factors := make(map[int]float64)
	for rows.Next() {
		var floorNo int
		var factor float64
		if err := rows.Scan(&floorNo, &factor); err != nil {
			return nil, fmt.Errorf("failed to scan floor factor: %w", err)
		}
		factors[floorNo] = factor
	}

	return factors, rows.Err()
}
