package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smartroute/busops-backend/internal/models"
)

// PricingTemplateRepository handles database operations for the
// pricing_templates table. All read paths exclude soft-deleted rows.
type PricingTemplateRepository struct {
	db DB
}

// NewPricingTemplateRepository creates a new PricingTemplateRepository
func NewPricingTemplateRepository(db DB) *PricingTemplateRepository {
	return &PricingTemplateRepository{db: db}
}

const pricingTemplateColumns = `id, route_id, vehicle_type, seat_type, occasion_type, base_fare,
	   vehicle_factor, seat_factor, floor_factor, occasion_factor, final_price,
	   valid_from, valid_to, is_deleted, created_at, updated_at`

// GetByID retrieves a non-deleted template by ID
func (r *PricingTemplateRepository) GetByID(templateID string) (*models.PricingTemplate, error) {
	query := `
		SELECT ` + pricingTemplateColumns + `
		FROM pricing_templates
		WHERE id = $1 AND is_deleted = false
	`

	var template models.PricingTemplate
	if err := r.db.Get(&template, query, templateID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("pricing template not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch pricing template: %w", err)
	}

	return &template, nil
}

// FindByRouteVehicleOccasion retrieves all non-deleted templates for a
// (route, vehicleType, occasionFactor) combination.
func (r *PricingTemplateRepository) FindByRouteVehicleOccasion(routeID, vehicleType string, occasionFactor float64) ([]models.PricingTemplate, error) {
	query := `
		SELECT ` + pricingTemplateColumns + `
		FROM pricing_templates
		WHERE route_id = $1 AND vehicle_type = $2 AND occasion_factor = $3 AND is_deleted = false
		ORDER BY seat_type, created_at
	`

	var templates []models.PricingTemplate
	if err := r.db.Select(&templates, query, routeID, vehicleType, occasionFactor); err != nil {
		return nil, fmt.Errorf("failed to fetch pricing templates: %w", err)
	}

	return templates, nil
}

// FindByRouteVehicleSeatOccasion retrieves all non-deleted templates for a
// (route, vehicleType, seatType, occasionFactor) combination, oldest first.
func (r *PricingTemplateRepository) FindByRouteVehicleSeatOccasion(routeID, vehicleType, seatType string, occasionFactor float64) ([]models.PricingTemplate, error) {
	query := `
		SELECT ` + pricingTemplateColumns + `
		FROM pricing_templates
		WHERE route_id = $1 AND vehicle_type = $2 AND seat_type = $3 AND occasion_factor = $4 AND is_deleted = false
		ORDER BY created_at
	`

	var templates []models.PricingTemplate
	if err := r.db.Select(&templates, query, routeID, vehicleType, seatType, occasionFactor); err != nil {
		return nil, fmt.Errorf("failed to fetch pricing templates: %w", err)
	}

	return templates, nil
}

// ListByRoute retrieves all non-deleted templates for a route
func (r *PricingTemplateRepository) ListByRoute(routeID string) ([]models.PricingTemplate, error) {
	query := `
		SELECT ` + pricingTemplateColumns + `
		FROM pricing_templates
		WHERE route_id = $1 AND is_deleted = false
		ORDER BY vehicle_type, seat_type, created_at
	`

	var templates []models.PricingTemplate
	if err := r.db.Select(&templates, query, routeID); err != nil {
		return nil, fmt.Errorf("failed to fetch pricing templates: %w", err)
	}

	return templates, nil
}

// Create persists a template
func (r *PricingTemplateRepository) Create(template *models.PricingTemplate) error {
	query := `
		INSERT INTO pricing_templates (
			id, route_id, vehicle_type, seat_type, occasion_type, base_fare,
			vehicle_factor, seat_factor, floor_factor, occasion_factor, final_price,
			valid_from, valid_to, is_deleted
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, false
		)
		RETURNING created_at, updated_at
	`

	if template.ID == "" {
		template.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		template.ID, template.RouteID, template.VehicleType, template.SeatType,
		template.OccasionType, template.BaseFare,
		template.VehicleFactor, template.SeatFactor, template.FloorFactor,
		template.OccasionFactor, template.FinalPrice,
		template.ValidFrom, template.ValidTo,
	).Scan(&template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pricing template: %w", err)
	}

	return nil
}

// Update replaces a template's pricing fields
func (r *PricingTemplateRepository) Update(template *models.PricingTemplate) error {
	query := `
		UPDATE pricing_templates
		SET base_fare = $2, vehicle_factor = $3, seat_factor = $4, floor_factor = $5,
			occasion_factor = $6, final_price = $7, valid_from = $8, valid_to = $9,
			updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		template.ID, template.BaseFare,
		template.VehicleFactor, template.SeatFactor, template.FloorFactor,
		template.OccasionFactor, template.FinalPrice,
		template.ValidFrom, template.ValidTo,
	).Scan(&template.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("pricing template not found: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update pricing template: %w", err)
	}

	return nil
}

// PartialUpdate applies only the fields set in the request. final_price must
// be recomputed by the caller and passed explicitly so the stored price never
// drifts from the factor formula.
func (r *PricingTemplateRepository) PartialUpdate(templateID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	args = append(args, templateID)
	for column, value := range fields {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE pricing_templates
		SET %s
		WHERE id = $1 AND is_deleted = false
	`, strings.Join(setClauses, ", "))

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update pricing template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("pricing template not found: %w", ErrNotFound)
	}

	return nil
}

// SoftDelete marks a template as deleted
func (r *PricingTemplateRepository) SoftDelete(templateID string) error {
	query := `
		UPDATE pricing_templates
		SET is_deleted = true, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
	`

	result, err := r.db.Exec(query, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete pricing template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("pricing template not found: %w", ErrNotFound)
	}

	return nil
}
