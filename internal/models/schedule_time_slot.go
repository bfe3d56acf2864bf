package models

import "time"

// ScheduleTimeSlot is a recurring departure/arrival time-of-day pair owned by
// exactly one schedule. Times are local clock times without a date (HH:MM);
// an arrival clock time earlier than the departure means the bus arrives the
// next calendar day.
type ScheduleTimeSlot struct {
	ID            string    `json:"id" db:"id"`
	ScheduleID    string    `json:"schedule_id" db:"schedule_id"`
	Code          string    `json:"code" db:"code"`
	DepartureTime string    `json:"departure_time" db:"departure_time"`
	ArrivalTime   string    `json:"arrival_time" db:"arrival_time"`
	BufferMinutes int       `json:"buffer_minutes" db:"buffer_minutes"`
	Sequence      int       `json:"sequence" db:"sequence"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ParseClock parses an HH:MM or HH:MM:SS clock string
func ParseClock(s string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("15:04", s)
}
