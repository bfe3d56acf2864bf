package database

import (
	"database/sql"
	"fmt"

	"github.com/smartroute/busops-backend/internal/models"
)

// VehicleRepository handles database operations for the vehicles table
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// GetByID retrieves a vehicle by ID
func (r *VehicleRepository) GetByID(vehicleID string) (*models.Vehicle, error) {
	query := `
		SELECT id, code, vehicle_type, price_factor, seat_map_id, total_seats, is_active, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	var vehicle models.Vehicle
	if err := r.db.Get(&vehicle, query, vehicleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("vehicle not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}

	return &vehicle, nil
}
