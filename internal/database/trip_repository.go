package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/smartroute/busops-backend/internal/models"
)

// TripRepository handles database operations for the trips table
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create creates a new trip
func (r *TripRepository) Create(trip *models.Trip) error {
	query := `
		INSERT INTO trips (
			id, code, route_id, time_slot_id, vehicle_id, driver_id, attendant_id,
			departure_at, arrival_at, occasion_factor, is_deleted
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false
		)
		RETURNING created_at, updated_at
	`

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		trip.ID, trip.Code, trip.RouteID, trip.TimeSlotID,
		trip.VehicleID, trip.DriverID, trip.AttendantID,
		trip.DepartureAt, trip.ArrivalAt, trip.OccasionFactor,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// GetByID retrieves a non-deleted trip by ID
func (r *TripRepository) GetByID(tripID string) (*models.Trip, error) {
	query := `
		SELECT id, code, route_id, time_slot_id, vehicle_id, driver_id, attendant_id,
			   departure_at, arrival_at, occasion_factor, is_deleted, created_at, updated_at
		FROM trips
		WHERE id = $1 AND is_deleted = false
	`

	var trip models.Trip
	if err := r.db.Get(&trip, query, tripID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("trip not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}

	return &trip, nil
}

// FindExistingKeys returns the natural keys of all non-deleted trips that
// already exist for any combination of the given slots and departure dates on
// one route. A single query covers the whole candidate cross-product, so the
// materializer never probes date-by-date.
func (r *TripRepository) FindExistingKeys(routeID string, slotIDs []string, dates []time.Time) (map[models.TripKey]bool, error) {
	existing := make(map[models.TripKey]bool)
	if len(slotIDs) == 0 || len(dates) == 0 {
		return existing, nil
	}

	dateStrs := make([]string, len(dates))
	for i, d := range dates {
		dateStrs[i] = d.Format("2006-01-02")
	}

	query := `
		SELECT route_id, time_slot_id, to_char(departure_at::date, 'YYYY-MM-DD') AS trip_date
		FROM trips
		WHERE route_id = $1
		  AND time_slot_id = ANY($2)
		  AND departure_at::date = ANY($3::date[])
		  AND is_deleted = false
	`

	rows, err := r.db.Query(query, routeID, pq.Array(slotIDs), pq.Array(dateStrs))
	if err != nil {
		return nil, fmt.Errorf("failed to check existing trips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key models.TripKey
		if err := rows.Scan(&key.RouteID, &key.TimeSlotID, &key.Date); err != nil {
			return nil, fmt.Errorf("failed to scan existing trip key: %w", err)
		}
		existing[key] = true
	}

	return existing, rows.Err()
}

// GetByDateRange retrieves non-deleted trips departing within a date range
func (r *TripRepository) GetByDateRange(start, end time.Time) ([]models.Trip, error) {
	query := `
		SELECT id, code, route_id, time_slot_id, vehicle_id, driver_id, attendant_id,
			   departure_at, arrival_at, occasion_factor, is_deleted, created_at, updated_at
		FROM trips
		WHERE departure_at >= $1 AND departure_at < $2 AND is_deleted = false
		ORDER BY departure_at
	`

	var trips []models.Trip
	if err := r.db.Select(&trips, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to fetch trips: %w", err)
	}

	return trips, nil
}

// SoftDelete marks a trip as deleted, freeing its natural key for re-creation
func (r *TripRepository) SoftDelete(tripID string) error {
	query := `
		UPDATE trips
		SET is_deleted = true, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
	`

	result, err := r.db.Exec(query, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("trip not found: %w", ErrNotFound)
	}

	return nil
}
