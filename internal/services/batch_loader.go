package services

import (
	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/models"
)

// Collaborator contracts for the reference data a generation run needs.
// Satisfied by the database repositories.
type routeBatchFetcher interface {
	GetByIDs(routeIDs []string) (map[string]models.Route, error)
}

type occasionBatchFetcher interface {
	GetByIDs(occasionIDs []string) (map[string]models.ScheduleOccasion, error)
}

type timeSlotBatchFetcher interface {
	GetActiveByScheduleIDs(scheduleIDs []string) (map[string][]models.ScheduleTimeSlot, error)
}

// RunReferences holds the hydrated reference data for one generation run
type RunReferences struct {
	Routes          map[string]models.Route
	Occasions       map[string]models.ScheduleOccasion
	SlotsBySchedule map[string][]models.ScheduleTimeSlot
}

// BatchDataLoader bulk-fetches the routes, occasion rules and time slots a
// set of schedules reference, using exactly three queries per run instead of
// one lookup per schedule.
type BatchDataLoader struct {
	routes    routeBatchFetcher
	occasions occasionBatchFetcher
	timeSlots timeSlotBatchFetcher
	logger    *logrus.Logger
}

// NewBatchDataLoader creates a new BatchDataLoader
func NewBatchDataLoader(
	routes routeBatchFetcher,
	occasions occasionBatchFetcher,
	timeSlots timeSlotBatchFetcher,
	logger *logrus.Logger,
) *BatchDataLoader {
	return &BatchDataLoader{
		routes:    routes,
		occasions: occasions,
		timeSlots: timeSlots,
		logger:    logger,
	}
}

// Load hydrates the references for a run. A failed fetch for one entity type
// degrades to an empty map for that type, logged as a warning; the run then
// proceeds with whatever data is available and skips the schedules it cannot
// resolve.
func (l *BatchDataLoader) Load(schedules []models.Schedule) *RunReferences {
	routeIDs := make([]string, 0, len(schedules))
	occasionIDs := make([]string, 0, len(schedules))
	scheduleIDs := make([]string, 0, len(schedules))
	seenRoutes := make(map[string]bool)
	seenOccasions := make(map[string]bool)
	for _, schedule := range schedules {
		scheduleIDs = append(scheduleIDs, schedule.ID)
		if !seenRoutes[schedule.RouteID] {
			seenRoutes[schedule.RouteID] = true
			routeIDs = append(routeIDs, schedule.RouteID)
		}
		if !seenOccasions[schedule.OccasionID] {
			seenOccasions[schedule.OccasionID] = true
			occasionIDs = append(occasionIDs, schedule.OccasionID)
		}
	}

	refs := &RunReferences{
		Routes:          map[string]models.Route{},
		Occasions:       map[string]models.ScheduleOccasion{},
		SlotsBySchedule: map[string][]models.ScheduleTimeSlot{},
	}

	if routes, err := l.routes.GetByIDs(routeIDs); err != nil {
		l.logger.WithError(err).Warn("Batch route fetch failed, continuing with empty route map")
	} else {
		refs.Routes = routes
	}

	if occasions, err := l.occasions.GetByIDs(occasionIDs); err != nil {
		l.logger.WithError(err).Warn("Batch occasion fetch failed, continuing with empty occasion map")
	} else {
		refs.Occasions = occasions
	}

	if slots, err := l.timeSlots.GetActiveByScheduleIDs(scheduleIDs); err != nil {
		l.logger.WithError(err).Warn("Batch time slot fetch failed, continuing with empty slot map")
	} else {
		refs.SlotsBySchedule = slots
	}

	return refs
}
