package database

import (
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/smartroute/busops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var templateColumns = []string{
	"id", "route_id", "vehicle_type", "seat_type", "occasion_type", "base_fare",
	"vehicle_factor", "seat_factor", "floor_factor", "occasion_factor", "final_price",
	"valid_from", "valid_to", "is_deleted", "created_at", "updated_at",
}

func templateRow(id, seatType string, finalPrice float64, now time.Time) []driver.Value {
	return []driver.Value{
		id, "route-A", "SLEEPER", seatType, "NORMAL", 100.0,
		1.2, 1.5, 1.0, 1.1, finalPrice,
		nil, nil, false, now, now,
	}
}

func TestPricingTemplateGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingTemplateRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM pricing_templates`).
			WithArgs("template-1").
			WillReturnRows(sqlmock.NewRows(templateColumns).AddRow(templateRow("template-1", "VIP", 198.0, now)...))

		template, err := repo.GetByID("template-1")
		require.NoError(t, err)
		assert.Equal(t, "template-1", template.ID)
		assert.Equal(t, "VIP", template.SeatType)
		assert.Equal(t, models.OccasionNormal, template.OccasionType)
		assert.Equal(t, 198.0, template.FinalPrice)
		require.NotNil(t, template.SeatFactor)
		assert.Equal(t, 1.5, *template.SeatFactor)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM pricing_templates`).
			WithArgs("template-missing").
			WillReturnRows(sqlmock.NewRows(templateColumns))

		template, err := repo.GetByID("template-missing")
		assert.Nil(t, template)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindByRouteVehicleOccasion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingTemplateRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM pricing_templates`).
			WithArgs("route-A", "SLEEPER", 1.1).
			WillReturnRows(sqlmock.NewRows(templateColumns).
				AddRow(templateRow("template-1", "STANDARD", 132.0, now)...).
				AddRow(templateRow("template-2", "VIP", 198.0, now)...))

		templates, err := repo.FindByRouteVehicleOccasion("route-A", "SLEEPER", 1.1)
		require.NoError(t, err)
		require.Len(t, templates, 2)
		assert.Equal(t, "STANDARD", templates[0].SeatType)
		assert.Equal(t, "VIP", templates[1].SeatType)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Matches Is Not An Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM pricing_templates`).
			WithArgs("route-B", "SLEEPER", 1.0).
			WillReturnRows(sqlmock.NewRows(templateColumns))

		templates, err := repo.FindByRouteVehicleOccasion("route-B", "SLEEPER", 1.0)
		require.NoError(t, err)
		assert.Empty(t, templates)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPricingTemplateCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingTemplateRepository(db)

	t.Run("Success Assigns ID", func(t *testing.T) {
		now := time.Now()
		seatFactor := 1.5
		template := &models.PricingTemplate{
			RouteID:      "route-A",
			VehicleType:  "SLEEPER",
			SeatType:     "VIP",
			OccasionType: models.OccasionNormal,
			BaseFare:     100,
			SeatFactor:   &seatFactor,
			FinalPrice:   150,
		}

		mock.ExpectQuery(`INSERT INTO pricing_templates`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		err := repo.Create(template)
		require.NoError(t, err)
		assert.NotEmpty(t, template.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO pricing_templates`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.PricingTemplate{RouteID: "route-A"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create pricing template")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPricingTemplatePartialUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingTemplateRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE pricing_templates`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.PartialUpdate("template-1", map[string]interface{}{
			"base_fare":   120.0,
			"final_price": 237.6,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Fields Is A No-Op", func(t *testing.T) {
		assert.NoError(t, repo.PartialUpdate("template-1", nil))
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE pricing_templates`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.PartialUpdate("template-gone", map[string]interface{}{"base_fare": 120.0})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPricingTemplateSoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPricingTemplateRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE pricing_templates`).
			WithArgs("template-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDelete("template-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE pricing_templates`).
			WithArgs("template-gone").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SoftDelete("template-gone")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
