package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/config"
	"github.com/smartroute/busops-backend/internal/models"
)

type scheduleSource interface {
	GetActiveSchedules() ([]models.Schedule, error)
}

type tripStore interface {
	Create(trip *models.Trip) error
	FindExistingKeys(routeID string, slotIDs []string, dates []time.Time) (map[models.TripKey]bool, error)
}

// RunResult aggregates one generation run. It is a value returned from Run,
// never shared state, so a manual trigger overlapping the scheduled run
// cannot corrupt another run's counters.
type RunResult struct {
	SchedulesProcessed int            `json:"schedules_processed"`
	TripsCreated       int            `json:"trips_created"`
	TripsBySchedule    map[string]int `json:"trips_by_schedule"`
}

// TripMaterializer expands active schedules into concrete trips over the
// rolling generation window. Schedules are processed one at a time; a failure
// inside one schedule abandons only that schedule's remaining trips.
type TripMaterializer struct {
	schedules scheduleSource
	loader    *BatchDataLoader
	trips     tripStore
	allocator ResourceAllocator
	cfg       config.TripGenerationConfig
	logger    *logrus.Logger
}

// NewTripMaterializer creates a new TripMaterializer
func NewTripMaterializer(
	schedules scheduleSource,
	loader *BatchDataLoader,
	trips tripStore,
	allocator ResourceAllocator,
	cfg config.TripGenerationConfig,
	logger *logrus.Logger,
) *TripMaterializer {
	return &TripMaterializer{
		schedules: schedules,
		loader:    loader,
		trips:     trips,
		allocator: allocator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run materializes missing trips for every active schedule within
// [today, today+horizon]. The same code path serves the daily cron job and
// the manual trigger.
func (m *TripMaterializer) Run() (*RunResult, error) {
	schedules, err := m.schedules.GetActiveSchedules()
	if err != nil {
		return nil, err
	}

	loc := m.cfg.Location()
	now := time.Now().In(loc)
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	windowEnd := windowStart.AddDate(0, 0, m.cfg.HorizonDays)

	refs := m.loader.Load(schedules)

	result := &RunResult{TripsBySchedule: make(map[string]int)}
	for i := range schedules {
		schedule := &schedules[i]
		result.SchedulesProcessed++

		created := m.materializeSchedule(schedule, refs, windowStart, windowEnd, loc)
		if created > 0 {
			result.TripsCreated += created
			result.TripsBySchedule[schedule.Code] = created
		}
	}

	m.logger.WithFields(logrus.Fields{
		"schedules_processed": result.SchedulesProcessed,
		"trips_created":       result.TripsCreated,
	}).Info("Trip generation run completed")

	return result, nil
}

// materializeSchedule creates the missing trips of one schedule and returns
// how many it created.
func (m *TripMaterializer) materializeSchedule(
	schedule *models.Schedule,
	refs *RunReferences,
	windowStart, windowEnd time.Time,
	loc *time.Location,
) int {
	log := m.logger.WithField("schedule", schedule.Code)

	route, ok := refs.Routes[schedule.RouteID]
	if !ok {
		log.WithField("route_id", schedule.RouteID).Warn("Skipping schedule: route unresolvable")
		return 0
	}
	occasion, ok := refs.Occasions[schedule.OccasionID]
	if !ok {
		log.WithField("occasion_id", schedule.OccasionID).Warn("Skipping schedule: occasion rule unresolvable")
		return 0
	}
	slots := refs.SlotsBySchedule[schedule.ID]
	if len(slots) == 0 {
		log.Debug("Schedule has no active time slots")
		return 0
	}

	dates, err := ExpandScheduleDates(schedule, windowStart, windowEnd)
	if err != nil {
		log.WithError(err).Warn("Skipping schedule: invalid recurrence rule")
		return 0
	}
	if len(dates) == 0 {
		return 0
	}

	slotIDs := make([]string, len(slots))
	slotByID := make(map[string]models.ScheduleTimeSlot, len(slots))
	for i, slot := range slots {
		slotIDs[i] = slot.ID
		slotByID[slot.ID] = slot
	}

	// One existence query covers the full date x slot cross-product.
	existing, err := m.trips.FindExistingKeys(route.ID, slotIDs, dates)
	if err != nil {
		log.WithError(err).Warn("Skipping schedule: existence check failed")
		return 0
	}

	created := 0
	for _, date := range dates {
		for _, slotID := range slotIDs {
			slot := slotByID[slotID]
			key := models.NewTripKey(route.ID, slot.ID, date)
			if existing[key] {
				continue
			}

			trip, err := m.buildTrip(schedule, &slot, &occasion, date, loc)
			if err != nil {
				log.WithError(err).WithField("slot", slot.Code).Warn("Skipping schedule: invalid slot times")
				return created
			}

			allocation, err := m.allocator.Allocate(trip)
			if err != nil {
				log.WithError(err).Warn("Resource allocation failed, abandoning schedule for this run")
				return created
			}
			trip.VehicleID = allocation.VehicleID
			trip.DriverID = allocation.DriverID
			trip.AttendantID = allocation.AttendantID

			if err := m.trips.Create(trip); err != nil {
				log.WithError(err).WithField("trip_code", trip.Code).Error("Trip persist failed, abandoning schedule for this run")
				return created
			}
			created++
		}
	}

	return created
}

// buildTrip combines a calendar date with a slot's clock times into absolute
// timestamps in the system time zone, and snapshots the occasion factor.
func (m *TripMaterializer) buildTrip(
	schedule *models.Schedule,
	slot *models.ScheduleTimeSlot,
	occasion *models.ScheduleOccasion,
	date time.Time,
	loc *time.Location,
) (*models.Trip, error) {
	departureClock, err := models.ParseClock(slot.DepartureTime)
	if err != nil {
		return nil, err
	}
	arrivalClock, err := models.ParseClock(slot.ArrivalTime)
	if err != nil {
		return nil, err
	}

	departure := time.Date(date.Year(), date.Month(), date.Day(),
		departureClock.Hour(), departureClock.Minute(), 0, 0, loc)
	arrival := time.Date(date.Year(), date.Month(), date.Day(),
		arrivalClock.Hour(), arrivalClock.Minute(), 0, 0, loc)

	// A slot arriving "earlier" than it departs crosses midnight.
	if arrival.Before(departure) {
		arrival = arrival.Add(24 * time.Hour)
	}

	return &models.Trip{
		Code:           models.TripCode(schedule.Code, slot.Code, date),
		RouteID:        schedule.RouteID,
		TimeSlotID:     slot.ID,
		DepartureAt:    departure,
		ArrivalAt:      arrival,
		OccasionFactor: occasion.Factor,
	}, nil
}
