package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule is a weekly recurrence rule for trips on one route. It is created
// and edited by the admin flow and read-only to the trip generator.
type Schedule struct {
	ID         string     `json:"id" db:"id"`
	Code       string     `json:"code" db:"code"`
	RouteID    string     `json:"route_id" db:"route_id"`
	OccasionID string     `json:"occasion_id" db:"occasion_id"`
	DaysOfWeek string     `json:"days_of_week" db:"days_of_week"` // comma list, Monday=1 .. Sunday=7
	StartDate  *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// WeekdaySet parses the comma-separated days_of_week mask into a set of ISO
// weekday numbers (Monday=1 .. Sunday=7). A blank mask yields an empty set,
// which effectively pauses the schedule. Any malformed or out-of-range token
// fails the whole parse: a schedule with a broken mask must not silently run
// on a subset of its days.
func (s *Schedule) WeekdaySet() (map[int]bool, error) {
	set := make(map[int]bool)
	if strings.TrimSpace(s.DaysOfWeek) == "" {
		return set, nil
	}
	for _, token := range strings.Split(s.DaysOfWeek, ",") {
		token = strings.TrimSpace(token)
		day, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid weekday token %q in days_of_week %q", token, s.DaysOfWeek)
		}
		if day < 1 || day > 7 {
			return nil, fmt.Errorf("weekday %d out of range 1-7 in days_of_week %q", day, s.DaysOfWeek)
		}
		set[day] = true
	}
	return set, nil
}

// ISOWeekday maps time.Weekday to the ISO numbering used by days_of_week
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// CreateScheduleRequest is the admin payload for a new recurrence rule
type CreateScheduleRequest struct {
	Code       string  `json:"code" binding:"required"`
	RouteID    string  `json:"route_id" binding:"required"`
	OccasionID string  `json:"occasion_id" binding:"required"`
	DaysOfWeek string  `json:"days_of_week" binding:"required"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	IsActive   *bool   `json:"is_active,omitempty"`
}

// Validate validates the create schedule request
func (r *CreateScheduleRequest) Validate() error {
	probe := Schedule{DaysOfWeek: r.DaysOfWeek}
	set, err := probe.WeekdaySet()
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.New("days_of_week must contain at least one weekday (1-7)")
	}

	var startDate time.Time
	if r.StartDate != nil {
		startDate, err = time.Parse("2006-01-02", *r.StartDate)
		if err != nil {
			return errors.New("start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *r.EndDate)
		if err != nil {
			return errors.New("end_date must be in YYYY-MM-DD format")
		}
		if r.StartDate != nil && endDate.Before(startDate) {
			return errors.New("end_date must not be before start_date")
		}
	}

	return nil
}
