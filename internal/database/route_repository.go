package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/smartroute/busops-backend/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `
		SELECT id, code, name, origin, destination, distance_km, base_fare, is_active, created_at, updated_at
		FROM routes
		WHERE id = $1
	`

	var route models.Route
	if err := r.db.Get(&route, query, routeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("route not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}

	return &route, nil
}

// GetByIDs retrieves all routes for the given ID set in a single query and
// returns them keyed by ID.
func (r *RouteRepository) GetByIDs(routeIDs []string) (map[string]models.Route, error) {
	result := make(map[string]models.Route, len(routeIDs))
	if len(routeIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, code, name, origin, destination, distance_km, base_fare, is_active, created_at, updated_at
		FROM routes
		WHERE id = ANY($1)
	`

	var routes []models.Route
	if err := r.db.Select(&routes, query, pq.Array(routeIDs)); err != nil {
		return nil, fmt.Errorf("failed to fetch routes: %w", err)
	}

	for _, route := range routes {
		result[route.ID] = route
	}

	return result, nil
}
