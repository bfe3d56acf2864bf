package models

import "time"

// OccasionType categorizes the demand/seasonal context a schedule runs under
type OccasionType string

const (
	OccasionNormal  OccasionType = "NORMAL"
	OccasionWeekend OccasionType = "WEEKEND"
	OccasionHoliday OccasionType = "HOLIDAY"
	OccasionPeak    OccasionType = "PEAK"
	OccasionOffPeak OccasionType = "OFF_PEAK"
	OccasionTet     OccasionType = "TET"
)

// ScheduleOccasion holds the multiplicative price factor for one occasion
// category. Many schedules may reference the same occasion row.
type ScheduleOccasion struct {
	ID           string       `json:"id" db:"id"`
	OccasionType OccasionType `json:"occasion_type" db:"occasion_type"`
	Factor       float64      `json:"factor" db:"factor"`
	Description  *string      `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
