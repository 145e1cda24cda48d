// Package streak turns a user's mood log history into engagement metrics:
// current and longest streaks, the Monday-first completion vector for the
// current week, and the month's completion percentage.
//
// Everything here is a pure function of a log snapshot and a reference day.
// Nothing reads the wall clock; callers decide what "today" is, in the
// user's own timezone.
package streak

import "time"

// Summary is the full set of engagement metrics for one reference day.
type Summary struct {
	CurrentStreak             int     `json:"current_streak"`
	LongestStreak             int     `json:"longest_streak"`
	WeekProgress              [7]bool `json:"week_progress"`
	LoggedDaysThisWeek        int     `json:"logged_days_this_week"`
	LoggedDaysPreviousWeek    int     `json:"logged_days_previous_week"`
	MonthCompletionPercentage int     `json:"month_completion_percentage"`
}

type DayState string

const (
	DayHasLog   DayState = "has-log"
	DayLoggable DayState = "loggable-now"
	DayInactive DayState = "inactive"
)

// Analyzer answers metric and calendar queries over one log snapshot.
type Analyzer struct {
	days *DaySet
	now  DayKey
}

// NewAnalyzer builds the logged-day set once. entries is not retained.
func NewAnalyzer(entries []LogEntry, now DayKey, loc *time.Location) *Analyzer {
	return &Analyzer{days: NewDaySet(entries, loc), now: now}
}

// NewAnalyzerFromSet reuses an already built day set. nil is treated as the
// empty set.
func NewAnalyzerFromSet(days *DaySet, now DayKey) *Analyzer {
	if days == nil {
		days = DaySetOf()
	}
	return &Analyzer{days: days, now: now}
}

// Compute is the one-shot form of NewAnalyzer(...).Summary().
func Compute(entries []LogEntry, now DayKey, loc *time.Location) Summary {
	return NewAnalyzer(entries, now, loc).Summary()
}

func (a *Analyzer) Now() DayKey   { return a.now }
func (a *Analyzer) Days() *DaySet { return a.days }

func (a *Analyzer) Streaks() StreakState {
	return Streaks(a.days, a.now)
}

func (a *Analyzer) Summary() Summary {
	st := a.Streaks()
	return Summary{
		CurrentStreak:             st.Current,
		LongestStreak:             st.Longest,
		WeekProgress:              WeekProgress(a.days, a.now),
		LoggedDaysThisWeek:        LoggedDaysInWeek(a.days, a.now),
		LoggedDaysPreviousWeek:    PreviousWeekLoggedDays(a.days, a.now),
		MonthCompletionPercentage: MonthCompletion(a.days, a.now),
	}
}

func (a *Analyzer) Period(p Period) DaysStat {
	return PeriodCount(a.days, a.now, p)
}

// IsLoggable reports whether a log may still be added for day: it must be
// today or an earlier day of the current week, and not logged yet.
func (a *Analyzer) IsLoggable(day DayKey) bool {
	if day.After(a.now) || day.Before(WeekStart(a.now)) {
		return false
	}
	return !a.days.Contains(day)
}

func (a *Analyzer) DayState(day DayKey) DayState {
	switch {
	case a.days.Contains(day):
		return DayHasLog
	case a.IsLoggable(day):
		return DayLoggable
	default:
		return DayInactive
	}
}
