package wrap

import (
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// Streak is the longest run of consecutive calendar days with activity.
type Streak struct {
	Days      int    `json:"days"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// LongestStreak finds the longest run of consecutive calendar days in
// dates. Each time contributes the calendar day of its own location.
// The earliest run wins ties. dates is not modified.
func LongestStreak(dates []time.Time) Streak {
	days := calendarDays(dates)
	if len(days) == 0 {
		return Streak{}
	}

	best, bestStart, bestEnd := 1, 0, 0
	run, runStart := 1, 0
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
			if run > best {
				best, bestStart, bestEnd = run, runStart, i
			}
			continue
		}
		run, runStart = 1, i
	}

	return Streak{
		Days:      best,
		StartDate: days[bestStart].Format(dayLayout),
		EndDate:   days[bestEnd].Format(dayLayout),
	}
}

// calendarDays maps dates to sorted, distinct midnights in UTC so that
// day arithmetic is free of DST shifts.
func calendarDays(dates []time.Time) []time.Time {
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		y, m, dd := d.Date()
		days = append(days, time.Date(y, m, dd, 0, 0, 0, 0, time.UTC))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := days[:0]
	for _, d := range days {
		if len(out) == 0 || !out[len(out)-1].Equal(d) {
			out = append(out, d)
		}
	}
	return out
}
