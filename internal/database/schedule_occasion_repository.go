package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/smartroute/busops-backend/internal/models"
)

// ScheduleOccasionRepository handles database operations for the
// schedule_occasions table
type ScheduleOccasionRepository struct {
	db DB
}

// NewScheduleOccasionRepository creates a new ScheduleOccasionRepository
func NewScheduleOccasionRepository(db DB) *ScheduleOccasionRepository {
	return &ScheduleOccasionRepository{db: db}
}

// GetByID retrieves an occasion rule by ID
func (r *ScheduleOccasionRepository) GetByID(occasionID string) (*models.ScheduleOccasion, error) {
	query := `
		SELECT id, occasion_type, factor, description, created_at, updated_at
		FROM schedule_occasions
		WHERE id = $1
	`

	var occasion models.ScheduleOccasion
	if err := r.db.Get(&occasion, query, occasionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule occasion not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch schedule occasion: %w", err)
	}

	return &occasion, nil
}

// GetByType retrieves the occasion rule for one occasion category
func (r *ScheduleOccasionRepository) GetByType(occasionType models.OccasionType) (*models.ScheduleOccasion, error) {
	query := `
		SELECT id, occasion_type, factor, description, created_at, updated_at
		FROM schedule_occasions
		WHERE occasion_type = $1
	`

	var occasion models.ScheduleOccasion
	if err := r.db.Get(&occasion, query, occasionType); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule occasion not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch schedule occasion: %w", err)
	}

	return &occasion, nil
}

// GetByIDs retrieves all occasion rules for the given ID set in a single
// query and returns them keyed by ID.
func (r *ScheduleOccasionRepository) GetByIDs(occasionIDs []string) (map[string]models.ScheduleOccasion, error) {
	result := make(map[string]models.ScheduleOccasion, len(occasionIDs))
	if len(occasionIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, occasion_type, factor, description, created_at, updated_at
		FROM schedule_occasions
		WHERE id = ANY($1)
	`

	var occasions []models.ScheduleOccasion
	if err := r.db.Select(&occasions, query, pq.Array(occasionIDs)); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule occasions: %w", err)
	}

	for _, occasion := range occasions {
		result[occasion.ID] = occasion
	}

	return result, nil
}
