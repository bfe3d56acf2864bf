package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartroute/busops-backend/internal/models"
)

// ScheduleRepository handles database operations for the schedules table
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetActiveSchedules retrieves all schedules eligible for a generation run
func (r *ScheduleRepository) GetActiveSchedules() ([]models.Schedule, error) {
	query := `
		SELECT id, code, route_id, occasion_id, days_of_week, start_date, end_date, is_active, created_at, updated_at
		FROM schedules
		WHERE is_active = true
		ORDER BY code
	`

	var schedules []models.Schedule
	if err := r.db.Select(&schedules, query); err != nil {
		return nil, fmt.Errorf("failed to fetch active schedules: %w", err)
	}

	return schedules, nil
}

// GetByID retrieves a schedule by ID
func (r *ScheduleRepository) GetByID(scheduleID string) (*models.Schedule, error) {
	query := `
		SELECT id, code, route_id, occasion_id, days_of_week, start_date, end_date, is_active, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`

	var schedule models.Schedule
	if err := r.db.Get(&schedule, query, scheduleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	return &schedule, nil
}

// List retrieves schedules with pagination
func (r *ScheduleRepository) List(limit, offset int) ([]models.Schedule, error) {
	query := `
		SELECT id, code, route_id, occasion_id, days_of_week, start_date, end_date, is_active, created_at, updated_at
		FROM schedules
		ORDER BY code
		LIMIT $1 OFFSET $2
	`

	var schedules []models.Schedule
	if err := r.db.Select(&schedules, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	return schedules, nil
}

// Create creates a new schedule
func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules (id, code, route_id, occasion_id, days_of_week, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		schedule.ID, schedule.Code, schedule.RouteID, schedule.OccasionID,
		schedule.DaysOfWeek, schedule.StartDate, schedule.EndDate, schedule.IsActive,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// Update updates a schedule's recurrence rule
func (r *ScheduleRepository) Update(schedule *models.Schedule) error {
	query := `
		UPDATE schedules
		SET route_id = $2, occasion_id = $3, days_of_week = $4,
			start_date = $5, end_date = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		schedule.ID, schedule.RouteID, schedule.OccasionID, schedule.DaysOfWeek,
		schedule.StartDate, schedule.EndDate, schedule.IsActive,
	).Scan(&schedule.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("schedule not found: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	return nil
}

// Deactivate turns a schedule off without removing its history
func (r *ScheduleRepository) Deactivate(scheduleID string) error {
	query := `
		UPDATE schedules
		SET is_active = false, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to deactivate schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("schedule not found: %w", ErrNotFound)
	}

	return nil
}
