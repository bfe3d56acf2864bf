package services

import (
	"time"

	"github.com/smartroute/busops-backend/internal/models"
)

// ExpandScheduleDates expands a schedule's weekly recurrence rule into the
// concrete calendar dates it runs on within the run window. The effective
// window is the intersection of the schedule's validity window and
// [windowStart, windowEnd]; open-ended validity bounds are treated as
// unbounded. An empty or inverted intersection yields no dates.
//
// Dates come back normalized to midnight, strictly ascending, without
// duplicates. A blank weekday mask yields no dates; a malformed mask fails
// the whole schedule.
func ExpandScheduleDates(schedule *models.Schedule, windowStart, windowEnd time.Time) ([]time.Time, error) {
	weekdays, err := schedule.WeekdaySet()
	if err != nil {
		return nil, err
	}
	if len(weekdays) == 0 {
		return nil, nil
	}

	start := truncateToDay(windowStart)
	end := truncateToDay(windowEnd)
	if schedule.StartDate != nil {
		if s := truncateToDay(*schedule.StartDate); s.After(start) {
			start = s
		}
	}
	if schedule.EndDate != nil {
		if e := truncateToDay(*schedule.EndDate); e.Before(end) {
			end = e
		}
	}
	if start.After(end) {
		return nil, nil
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if weekdays[models.ISOWeekday(d.Weekday())] {
			dates = append(dates, d)
		}
	}

	return dates, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
