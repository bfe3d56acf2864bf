package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/smartroute/busops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockDB wires sqlmock behind the DB interface through the same sqlx
// wrapper production uses, so Get and Select scan exactly as they would
// against PostgreSQL.
func newMockDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var tripColumns = []string{
	"id", "code", "route_id", "time_slot_id", "vehicle_id", "driver_id", "attendant_id",
	"departure_at", "arrival_at", "occasion_factor", "is_deleted", "created_at", "updated_at",
}

func TestTripCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Success Assigns ID And Timestamps", func(t *testing.T) {
		now := time.Now()
		trip := &models.Trip{
			Code:           "HAN-SGN-D-20260302-S1",
			RouteID:        "route-A",
			TimeSlotID:     "slot-1",
			DepartureAt:    now,
			ArrivalAt:      now.Add(4 * time.Hour),
			OccasionFactor: 1.25,
		}

		mock.ExpectQuery(`INSERT INTO trips`).
			WithArgs(
				sqlmock.AnyArg(), trip.Code, trip.RouteID, trip.TimeSlotID,
				nil, nil, nil,
				trip.DepartureAt, trip.ArrivalAt, trip.OccasionFactor,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		err := repo.Create(trip)
		require.NoError(t, err)
		assert.NotEmpty(t, trip.ID)
		assert.Equal(t, now, trip.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		trip := &models.Trip{Code: "X", RouteID: "route-A", TimeSlotID: "slot-1"}

		mock.ExpectQuery(`INSERT INTO trips`).
			WillReturnError(fmt.Errorf("duplicate key value violates unique constraint"))

		err := repo.Create(trip)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create trip")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		vehicleID := "vehicle-1"

		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs("trip-1").
			WillReturnRows(sqlmock.NewRows(tripColumns).AddRow(
				"trip-1", "HAN-SGN-D-20260302-S1", "route-A", "slot-1", vehicleID, nil, nil,
				now, now.Add(4*time.Hour), 1.25, false, now, now,
			))

		trip, err := repo.GetByID("trip-1")
		require.NoError(t, err)
		assert.Equal(t, "trip-1", trip.ID)
		assert.Equal(t, 1.25, trip.OccasionFactor)
		require.NotNil(t, trip.VehicleID)
		assert.Equal(t, vehicleID, *trip.VehicleID)
		assert.Nil(t, trip.DriverID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs("trip-missing").
			WillReturnRows(sqlmock.NewRows(tripColumns))

		trip, err := repo.GetByID("trip-missing")
		assert.Nil(t, trip)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindExistingKeys(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	dates := []time.Time{
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Maps Rows To Natural Keys", func(t *testing.T) {
		mock.ExpectQuery(`SELECT route_id, time_slot_id`).
			WithArgs("route-A", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"route_id", "time_slot_id", "trip_date"}).
				AddRow("route-A", "slot-1", "2026-03-02").
				AddRow("route-A", "slot-2", "2026-03-03"))

		existing, err := repo.FindExistingKeys("route-A", []string{"slot-1", "slot-2"}, dates)
		require.NoError(t, err)
		assert.Len(t, existing, 2)
		assert.True(t, existing[models.TripKey{RouteID: "route-A", TimeSlotID: "slot-1", Date: "2026-03-02"}])
		assert.True(t, existing[models.TripKey{RouteID: "route-A", TimeSlotID: "slot-2", Date: "2026-03-03"}])
		assert.False(t, existing[models.TripKey{RouteID: "route-A", TimeSlotID: "slot-1", Date: "2026-03-03"}])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Inputs Skip The Query", func(t *testing.T) {
		existing, err := repo.FindExistingKeys("route-A", nil, dates)
		require.NoError(t, err)
		assert.Empty(t, existing)

		existing, err = repo.FindExistingKeys("route-A", []string{"slot-1"}, nil)
		require.NoError(t, err)
		assert.Empty(t, existing)
	})

	t.Run("Query Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT route_id, time_slot_id`).
			WillReturnError(fmt.Errorf("connection reset"))

		existing, err := repo.FindExistingKeys("route-A", []string{"slot-1"}, dates)
		assert.Error(t, err)
		assert.Nil(t, existing)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripSoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips`).
			WithArgs("trip-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDelete("trip-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Deleted Or Missing", func(t *testing.T) {
		mock.ExpectExec(`UPDATE trips`).
			WithArgs("trip-gone").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SoftDelete("trip-gone")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
