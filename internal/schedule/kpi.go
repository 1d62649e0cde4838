package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// Summary holds the raw numbers behind the dashboard tiles.
type Summary struct {
	WeekTotal        int
	Today            int
	OngoingNow       int
	Completed7d      int
	Trailing7d       int
	CompletionRate   int // percent, rounded
	Upcoming7d       int
	DriversScheduled int
	DriversTotal     int
	Utilization      int // percent, rounded
}

// Summarize computes the dashboard statistics relative to now. The calendar
// date of "today" is read in now's location, so callers choose the time zone
// by converting now before passing it in.
//
// Windows, all inclusive of their end dates:
//   - week: Monday through Sunday of the current calendar week
//   - trailing 7 days: today and the six days before it
//   - upcoming 7 days: today and the six days after it
func Summarize(trips []domain.Trip, drivers []domain.Driver, now time.Time) Summary {
	today := domain.DateOf(now)
	weekStart := today.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	weekEnd := weekStart.AddDate(0, 0, 6)
	last7Start := today.AddDate(0, 0, -6)
	next7End := today.AddDate(0, 0, 6)

	s := Summary{DriversTotal: len(drivers)}
	scheduled := map[string]struct{}{}

	for _, t := range trips {
		if within(t.Date, weekStart, weekEnd) {
			s.WeekTotal++
		}
		if t.Date.Equal(today) {
			s.Today++
			if t.Status.Active() && t.Interval().Contains(now) {
				s.OngoingNow++
			}
		}
		if within(t.Date, last7Start, today) {
			s.Trailing7d++
			if t.Status == domain.StatusCompleted {
				s.Completed7d++
			}
		}
		if within(t.Date, today, next7End) {
			s.Upcoming7d++
			scheduled[t.DriverID] = struct{}{}
		}
	}

	s.DriversScheduled = len(scheduled)
	s.CompletionRate = percent(s.Completed7d, s.Trailing7d)
	s.Utilization = percent(s.DriversScheduled, s.DriversTotal)
	return s
}

// Kpis renders the summary as dashboard tiles.
func (s Summary) Kpis() []domain.Kpi {
	return []domain.Kpi{
		{Key: "wk_total", Label: "This Week (total)", Value: fmt.Sprint(s.WeekTotal)},
		{Key: "today", Label: "Today", Value: fmt.Sprint(s.Today), Sub: fmt.Sprintf("%d ongoing now", s.OngoingNow)},
		{Key: "completion", Label: "Completion Rate (7d)", Value: fmt.Sprintf("%d%%", s.CompletionRate), Sub: fmt.Sprintf("%d/%d done", s.Completed7d, s.Trailing7d)},
		{Key: "upcoming", Label: "Upcoming (7d)", Value: fmt.Sprint(s.Upcoming7d)},
		{Key: "util", Label: "Driver Utilization (7d)", Value: fmt.Sprintf("%d%%", s.Utilization), Sub: fmt.Sprintf("%d/%d drivers", s.DriversScheduled, s.DriversTotal)},
	}
}

// ComputeKpis is Summarize followed by Kpis.
func ComputeKpis(trips []domain.Trip, drivers []domain.Driver, now time.Time) []domain.Kpi {
	return Summarize(trips, drivers, now).Kpis()
}

func within(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

// percent returns part/whole as a rounded percentage, or 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
