package streak

import (
	"fmt"
	"math"
	"time"
)

// WeekStart returns the Monday of the ISO week containing day.
func WeekStart(day DayKey) DayKey {
	offset := int(day.Weekday() - time.Monday)
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDays(-offset)
}

// WeekDays lists Monday through Sunday of the week containing day.
func WeekDays(day DayKey) [7]DayKey {
	var week [7]DayKey
	monday := WeekStart(day)
	for i := range week {
		week[i] = monday.AddDays(i)
	}
	return week
}

// WeekProgress flags, Monday first, which days of now's week have a log.
// Days after now are always false.
func WeekProgress(set *DaySet, now DayKey) [7]bool {
	var progress [7]bool
	for i, day := range WeekDays(now) {
		progress[i] = !day.After(now) && set.Contains(day)
	}
	return progress
}

// LoggedDaysInWeek counts logged days from Monday of now's week up to now.
func LoggedDaysInWeek(set *DaySet, now DayKey) int {
	return set.CountBetween(WeekStart(now), now)
}

// PreviousWeekLoggedDays counts logged days in the full Monday–Sunday week
// before now's week.
func PreviousWeekLoggedDays(set *DaySet, now DayKey) int {
	monday := WeekStart(now).AddDays(-7)
	return set.CountBetween(monday, monday.AddDays(6))
}

// MonthCompletion is the share of days so far in now's month that have a
// log, as a rounded percentage. Days after now are not counted.
func MonthCompletion(set *DaySet, now DayKey) int {
	daysPassed := min(now.Day, now.DaysInMonth())
	if daysPassed <= 0 {
		return 0
	}

	first := NewDayKey(now.Year, now.Month, 1)
	logged := set.CountBetween(first, now)

	return percentage(logged, daysPassed)
}

func percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(whole)))
	return min(max(p, 0), 100)
}

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodYear    Period = "year"
	PeriodAllTime Period = "all_time"
)

// ParsePeriod accepts the route spellings used by the stats endpoints.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "week", "weekly":
		return PeriodWeek, nil
	case "month", "monthly":
		return PeriodMonth, nil
	case "year", "yearly":
		return PeriodYear, nil
	case "all_time", "all-time", "alltime":
		return PeriodAllTime, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// DaysStat is the number of logged days in a period against the period length.
type DaysStat struct {
	Period     Period `json:"period"`
	DaysLogged int    `json:"days_logged"`
	TotalDays  int    `json:"total_days"`
}

// PeriodCount counts logged days in the period containing now, never past
// now. The all-time period runs from the first logged day to now.
func PeriodCount(set *DaySet, now DayKey, period Period) DaysStat {
	stat := DaysStat{Period: period}

	switch period {
	case PeriodWeek:
		stat.DaysLogged = LoggedDaysInWeek(set, now)
		stat.TotalDays = 7
	case PeriodMonth:
		stat.DaysLogged = set.CountBetween(NewDayKey(now.Year, now.Month, 1), now)
		stat.TotalDays = now.DaysInMonth()
	case PeriodYear:
		stat.DaysLogged = set.CountBetween(NewDayKey(now.Year, time.January, 1), now)
		stat.TotalDays = now.DaysInYear()
	case PeriodAllTime:
		if set.Len() == 0 || set.sorted()[0].After(now) {
			return stat
		}
		first := set.sorted()[0]
		stat.DaysLogged = set.CountBetween(first, now)
		stat.TotalDays = first.DaysUntil(now) + 1
	}

	return stat
}
