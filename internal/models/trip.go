package models

import (
	"fmt"
	"time"
)

// Trip is a materialized instance of a schedule time slot on one calendar
// date. OccasionFactor is snapshotted from the schedule's occasion rule at
// creation time and does not follow later rule edits.
type Trip struct {
	ID             string    `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"`
	RouteID        string    `json:"route_id" db:"route_id"`
	TimeSlotID     string    `json:"time_slot_id" db:"time_slot_id"`
	VehicleID      *string   `json:"vehicle_id,omitempty" db:"vehicle_id"`
	DriverID       *string   `json:"driver_id,omitempty" db:"driver_id"`
	AttendantID    *string   `json:"attendant_id,omitempty" db:"attendant_id"`
	DepartureAt    time.Time `json:"departure_at" db:"departure_at"`
	ArrivalAt      time.Time `json:"arrival_at" db:"arrival_at"`
	OccasionFactor float64   `json:"occasion_factor" db:"occasion_factor"`
	IsDeleted      bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TripKey is the natural key identifying at most one non-deleted trip
type TripKey struct {
	RouteID    string
	TimeSlotID string
	Date       string // YYYY-MM-DD
}

// NewTripKey builds the natural key for a (route, slot, calendar date) triple
func NewTripKey(routeID, timeSlotID string, date time.Time) TripKey {
	return TripKey{
		RouteID:    routeID,
		TimeSlotID: timeSlotID,
		Date:       date.Format("2006-01-02"),
	}
}

// TripCode derives the human-readable trip code from its schedule context
func TripCode(scheduleCode, slotCode string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%s", scheduleCode, date.Format("20060102"), slotCode)
}
