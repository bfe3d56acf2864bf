package database

import (
	"fmt"

	"github.com/lib/pq"
	"github.com/smartroute/busops-backend/internal/models"
)

// ScheduleTimeSlotRepository handles database operations for the
// schedule_time_slots table
type ScheduleTimeSlotRepository struct {
	db DB
}

// NewScheduleTimeSlotRepository creates a new ScheduleTimeSlotRepository
func NewScheduleTimeSlotRepository(db DB) *ScheduleTimeSlotRepository {
	return &ScheduleTimeSlotRepository{db: db}
}

// GetActiveByScheduleIDs retrieves the active time slots of every schedule in
// the given ID set with a single query, keyed by schedule ID and ordered by
// slot sequence within each schedule.
func (r *ScheduleTimeSlotRepository) GetActiveByScheduleIDs(scheduleIDs []string) (map[string][]models.ScheduleTimeSlot, error) {
	result := make(map[string][]models.ScheduleTimeSlot, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, schedule_id, code, departure_time, arrival_time, buffer_minutes, sequence, is_active, created_at, updated_at
		FROM schedule_time_slots
		WHERE schedule_id = ANY($1) AND is_active = true
		ORDER BY schedule_id, sequence
	`

	var slots []models.ScheduleTimeSlot
	if err := r.db.Select(&slots, query, pq.Array(scheduleIDs)); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule time slots: %w", err)
	}

	for _, slot := range slots {
		result[slot.ScheduleID] = append(result[slot.ScheduleID], slot)
	}

	return result, nil
}
