package services

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/config"
	"github.com/smartroute/busops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleSource struct {
	schedules []models.Schedule
	err       error
}

func (f *fakeScheduleSource) GetActiveSchedules() ([]models.Schedule, error) {
	return f.schedules, f.err
}

type fakeRouteFetcher struct {
	routes map[string]models.Route
	err    error
}

func (f *fakeRouteFetcher) GetByIDs(routeIDs []string) (map[string]models.Route, error) {
	return f.routes, f.err
}

type fakeOccasionFetcher struct {
	occasions map[string]models.ScheduleOccasion
	err       error
}

func (f *fakeOccasionFetcher) GetByIDs(occasionIDs []string) (map[string]models.ScheduleOccasion, error) {
	return f.occasions, f.err
}

type fakeSlotFetcher struct {
	slots map[string][]models.ScheduleTimeSlot
	err   error
}

func (f *fakeSlotFetcher) GetActiveByScheduleIDs(scheduleIDs []string) (map[string][]models.ScheduleTimeSlot, error) {
	return f.slots, f.err
}

// fakeTripStore keeps created trips in memory and answers existence checks
// from them, mimicking the natural-key dedup of the real table.
type fakeTripStore struct {
	created       []models.Trip
	failRouteID   string
	existenceErr  error
	existenceHits int
}

func (f *fakeTripStore) Create(trip *models.Trip) error {
	if f.failRouteID != "" && trip.RouteID == f.failRouteID {
		return fmt.Errorf("insert failed")
	}
	f.created = append(f.created, *trip)
	return nil
}

func (f *fakeTripStore) FindExistingKeys(routeID string, slotIDs []string, dates []time.Time) (map[models.TripKey]bool, error) {
	f.existenceHits++
	if f.existenceErr != nil {
		return nil, f.existenceErr
	}
	existing := make(map[models.TripKey]bool)
	for _, trip := range f.created {
		existing[models.NewTripKey(trip.RouteID, trip.TimeSlotID, trip.DepartureAt)] = true
	}
	return existing, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testGenerationConfig() config.TripGenerationConfig {
	return config.TripGenerationConfig{HorizonDays: 7, Timezone: "UTC"}
}

func newTestMaterializer(
	schedules []models.Schedule,
	routes map[string]models.Route,
	occasions map[string]models.ScheduleOccasion,
	slots map[string][]models.ScheduleTimeSlot,
	store *fakeTripStore,
) *TripMaterializer {
	logger := testLogger()
	loader := NewBatchDataLoader(
		&fakeRouteFetcher{routes: routes},
		&fakeOccasionFetcher{occasions: occasions},
		&fakeSlotFetcher{slots: slots},
		logger,
	)
	allocator := NewStaticResourceAllocator(config.ResourceConfig{
		DefaultVehicleID: "vehicle-1",
		DefaultDriverID:  "driver-1",
	})
	return NewTripMaterializer(
		&fakeScheduleSource{schedules: schedules},
		loader,
		store,
		allocator,
		testGenerationConfig(),
		logger,
	)
}

func dailySchedule(id, code, routeID, occasionID string) models.Schedule {
	return models.Schedule{
		ID:         id,
		Code:       code,
		RouteID:    routeID,
		OccasionID: occasionID,
		DaysOfWeek: "1,2,3,4,5,6,7",
		IsActive:   true,
	}
}

func TestTripMaterializerRun(t *testing.T) {
	routes := map[string]models.Route{
		"route-A": {ID: "route-A", Code: "HAN-SGN", BaseFare: 250},
	}
	occasions := map[string]models.ScheduleOccasion{
		"occasion-1": {ID: "occasion-1", OccasionType: models.OccasionNormal, Factor: 1.25},
	}
	slots := map[string][]models.ScheduleTimeSlot{
		"sched-1": {
			{ID: "slot-1", ScheduleID: "sched-1", Code: "S1", DepartureTime: "08:00", ArrivalTime: "12:30", IsActive: true},
			{ID: "slot-2", ScheduleID: "sched-1", Code: "S2", DepartureTime: "14:00", ArrivalTime: "18:30", IsActive: true},
		},
	}
	schedules := []models.Schedule{dailySchedule("sched-1", "HAN-SGN-D", "route-A", "occasion-1")}

	t.Run("Creates Full Window", func(t *testing.T) {
		store := &fakeTripStore{}
		m := newTestMaterializer(schedules, routes, occasions, slots, store)

		result, err := m.Run()
		require.NoError(t, err)

		// Daily mask over an inclusive 7-day horizon: 8 dates x 2 slots.
		assert.Equal(t, 1, result.SchedulesProcessed)
		assert.Equal(t, 16, result.TripsCreated)
		assert.Equal(t, 16, result.TripsBySchedule["HAN-SGN-D"])
		assert.Len(t, store.created, 16)
	})

	t.Run("Second Run Is Idempotent", func(t *testing.T) {
		store := &fakeTripStore{}
		m := newTestMaterializer(schedules, routes, occasions, slots, store)

		_, err := m.Run()
		require.NoError(t, err)
		first := len(store.created)

		result, err := m.Run()
		require.NoError(t, err)
		assert.Equal(t, 0, result.TripsCreated)
		assert.NotContains(t, result.TripsBySchedule, "HAN-SGN-D")
		assert.Len(t, store.created, first)
	})

	t.Run("One Existence Query Per Schedule", func(t *testing.T) {
		store := &fakeTripStore{}
		m := newTestMaterializer(schedules, routes, occasions, slots, store)

		_, err := m.Run()
		require.NoError(t, err)
		assert.Equal(t, 1, store.existenceHits)
	})

	t.Run("Snapshots Occasion Factor And Allocates Resources", func(t *testing.T) {
		store := &fakeTripStore{}
		m := newTestMaterializer(schedules, routes, occasions, slots, store)

		_, err := m.Run()
		require.NoError(t, err)
		for _, trip := range store.created {
			assert.Equal(t, 1.25, trip.OccasionFactor)
			require.NotNil(t, trip.VehicleID)
			assert.Equal(t, "vehicle-1", *trip.VehicleID)
			require.NotNil(t, trip.DriverID)
			assert.Nil(t, trip.AttendantID)
		}
	})

	t.Run("Unresolvable Occasion Skips Only That Schedule", func(t *testing.T) {
		twoSchedules := []models.Schedule{
			dailySchedule("sched-1", "HAN-SGN-D", "route-A", "occasion-1"),
			dailySchedule("sched-2", "HAN-SGN-W", "route-A", "occasion-missing"),
		}
		twoSlots := map[string][]models.ScheduleTimeSlot{
			"sched-1": slots["sched-1"],
			"sched-2": {{ID: "slot-9", ScheduleID: "sched-2", Code: "S9", DepartureTime: "09:00", ArrivalTime: "13:00", IsActive: true}},
		}
		store := &fakeTripStore{}
		m := newTestMaterializer(twoSchedules, routes, occasions, twoSlots, store)

		result, err := m.Run()
		require.NoError(t, err)
		assert.Equal(t, 2, result.SchedulesProcessed)
		assert.Equal(t, 16, result.TripsCreated)
		assert.NotContains(t, result.TripsBySchedule, "HAN-SGN-W")
	})

	t.Run("Route Batch Failure Degrades To Empty Run", func(t *testing.T) {
		store := &fakeTripStore{}
		logger := testLogger()
		loader := NewBatchDataLoader(
			&fakeRouteFetcher{err: fmt.Errorf("db down")},
			&fakeOccasionFetcher{occasions: occasions},
			&fakeSlotFetcher{slots: slots},
			logger,
		)
		m := NewTripMaterializer(
			&fakeScheduleSource{schedules: schedules},
			loader,
			store,
			NewStaticResourceAllocator(config.ResourceConfig{}),
			testGenerationConfig(),
			logger,
		)

		result, err := m.Run()
		require.NoError(t, err)
		assert.Equal(t, 1, result.SchedulesProcessed)
		assert.Equal(t, 0, result.TripsCreated)
	})

	t.Run("Malformed Mask Skips Schedule", func(t *testing.T) {
		broken := dailySchedule("sched-1", "HAN-SGN-D", "route-A", "occasion-1")
		broken.DaysOfWeek = "1,x"
		store := &fakeTripStore{}
		m := newTestMaterializer([]models.Schedule{broken}, routes, occasions, slots, store)

		result, err := m.Run()
		require.NoError(t, err)
		assert.Equal(t, 0, result.TripsCreated)
	})

	t.Run("Existence Check Failure Skips Schedule", func(t *testing.T) {
		store := &fakeTripStore{existenceErr: fmt.Errorf("query failed")}
		m := newTestMaterializer(schedules, routes, occasions, slots, store)

		result, err := m.Run()
		require.NoError(t, err)
		assert.Equal(t, 0, result.TripsCreated)
		assert.Empty(t, store.created)
	})

	t.Run("Persist Failure Abandons Only That Schedule", func(t *testing.T) {
		routesAB := map[string]models.Route{
			"route-A": routes["route-A"],
			"route-B": {ID: "route-B", Code: "SGN-DLT", BaseFare: 180},
		}
		twoSchedules := []models.Schedule{
			dailySchedule("sched-1", "HAN-SGN-D", "route-A", "occasion-1"),
			dailySchedule("sched-2", "SGN-DLT-D", "route-B", "occasion-1"),
		}
		twoSlots := map[string][]models.ScheduleTimeSlot{
			"sched-1": slots["sched-1"],
			"sched-2": {{ID: "slot-9", ScheduleID: "sched-2", Code: "S9", DepartureTime: "09:00", ArrivalTime: "13:00", IsActive: true}},
		}
		store := &fakeTripStore{failRouteID: "route-A"}
		m := newTestMaterializer(twoSchedules, routesAB, occasions, twoSlots, store)

		result, err := m.Run()
		require.NoError(t, err)
		assert.Equal(t, 2, result.SchedulesProcessed)
		// route-A trips all fail; route-B's 8 dates x 1 slot still land.
		assert.Equal(t, 8, result.TripsCreated)
		assert.Equal(t, 8, result.TripsBySchedule["SGN-DLT-D"])
	})
}

func TestTripMaterializerOvernightArrival(t *testing.T) {
	routes := map[string]models.Route{"route-A": {ID: "route-A", Code: "HAN-SGN", BaseFare: 250}}
	occasions := map[string]models.ScheduleOccasion{"occasion-1": {ID: "occasion-1", Factor: 1.0}}
	slots := map[string][]models.ScheduleTimeSlot{
		"sched-1": {{ID: "slot-1", ScheduleID: "sched-1", Code: "N1", DepartureTime: "23:30", ArrivalTime: "01:15", IsActive: true}},
	}
	schedules := []models.Schedule{dailySchedule("sched-1", "HAN-SGN-N", "route-A", "occasion-1")}

	store := &fakeTripStore{}
	m := newTestMaterializer(schedules, routes, occasions, slots, store)

	_, err := m.Run()
	require.NoError(t, err)
	require.NotEmpty(t, store.created)

	for _, trip := range store.created {
		assert.True(t, trip.ArrivalAt.After(trip.DepartureAt))
		assert.Equal(t, 1*time.Hour+45*time.Minute, trip.ArrivalAt.Sub(trip.DepartureAt))
		assert.Equal(t, trip.DepartureAt.AddDate(0, 0, 1).Day(), trip.ArrivalAt.Day())
	}
}
