// Package planner derives calendar views from a trip: the ordered day range
// between its dates and the per-day activity schedule.
package planner

import (
	"sort"
	"time"

	"github.com/viajafacil/viajafacil/internal/models"
)

const dayLayout = "2006-01-02"

// TripDays enumerates every calendar day from start to end inclusive as
// YYYY-MM-DD strings. Missing or unparseable dates produce an empty range,
// as does end before start. Both dates are pinned to midday UTC so the walk
// is immune to daylight-saving transitions.
func TripDays(startDate, endDate string) []string {
	if startDate == "" || endDate == "" {
		return []string{}
	}

	start, err := time.Parse(dayLayout, startDate)
	if err != nil {
		return []string{}
	}
	end, err := time.Parse(dayLayout, endDate)
	if err != nil {
		return []string{}
	}

	start = time.Date(start.Year(), start.Month(), start.Day(), 12, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 12, 0, 0, 0, time.UTC)

	days := []string{}
	for dt := start; !dt.After(end); dt = dt.AddDate(0, 0, 1) {
		days = append(days, dt.Format(dayLayout))
	}
	return days
}

// DayActivities selects the activities scheduled on an exact day, ordered by
// time ascending using lexicographic HH:MM comparison. Activities without a
// time sort first. The sort is stable so same-time entries keep insertion
// order.
func DayActivities(trip *models.Trip, day string) []models.Activity {
	selected := []models.Activity{}
	for _, a := range trip.Activities {
		if a.Date == day {
			selected = append(selected, a)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Time < selected[j].Time
	})
	return selected
}

// DaySchedule is one day of the trip with its bound activities.
type DaySchedule struct {
	Date       string            `json:"date"`
	Activities []models.Activity `json:"activities"`
}

// Schedule bins a trip's activities into its day range. Activities dated
// outside the range are simply not visible in any day.
func Schedule(trip *models.Trip) []DaySchedule {
	days := TripDays(trip.StartDate, trip.EndDate)
	schedule := make([]DaySchedule, 0, len(days))
	for _, day := range days {
		schedule = append(schedule, DaySchedule{
			Date:       day,
			Activities: DayActivities(trip, day),
		})
	}
	return schedule
}
