package streak

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func entriesOn(ss ...string) []LogEntry {
	out := make([]LogEntry, len(ss))
	for i, s := range ss {
		out[i] = LogEntry{RawDate: s, Mood: "Happy"}
	}
	return out
}

func TestCompute_EmptyInput(t *testing.T) {
	for _, entries := range [][]LogEntry{nil, {}} {
		assert.Equal(t, Summary{}, Compute(entries, day("2024-01-03"), time.UTC))
	}
}

func TestCompute_Summary(t *testing.T) {
	entries := []LogEntry{
		{Date: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), Mood: "Happy"},
		{Date: time.Date(2024, 1, 10, 21, 0, 0, 0, time.UTC), Mood: "Sad"},
		{RawDate: "2024-01-09T08:00:00Z", Mood: "Fine"},
		{RawDate: "2024-01-08", Mood: "Relaxed"},
		{RawDate: "2024-01-05", Mood: "Angry"},
		{RawDate: "2024-01-04", Mood: "Angry"},
		{RawDate: "2024-01-03", Mood: "Angry"},
		{RawDate: "2024-01-02", Mood: "Angry"},
		{RawDate: "garbage", Mood: "Anxious"},
	}

	got := Compute(entries, day("2024-01-10"), time.UTC)

	assert.Equal(t, Summary{
		CurrentStreak:             3,
		LongestStreak:             4,
		WeekProgress:              [7]bool{true, true, true, false, false, false, false},
		LoggedDaysThisWeek:        3,
		LoggedDaysPreviousWeek:    4,
		MonthCompletionPercentage: 70,
	}, got)
}

func TestCompute_TimezoneDecidesTheDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 16:00 UTC on the 2nd is already the 3rd in Tokyo.
	entries := []LogEntry{
		{RawDate: "2024-01-01T10:00:00Z"},
		{RawDate: "2024-01-02T16:00:00Z"},
	}

	inUTC := Compute(entries, day("2024-01-03"), time.UTC)
	inTokyo := Compute(entries, day("2024-01-03"), tokyo)

	assert.Equal(t, 2, inUTC.CurrentStreak)
	assert.Equal(t, [7]bool{true, true, false, false, false, false, false}, inUTC.WeekProgress)

	assert.Equal(t, 1, inTokyo.CurrentStreak)
	assert.Equal(t, [7]bool{true, false, true, false, false, false, false}, inTokyo.WeekProgress)
}

func TestCompute_DeterministicAndNonMutating(t *testing.T) {
	entries := entriesOn("2024-01-05", "2024-01-01", "2024-01-03", "2024-01-03", "2024-01-02")
	snapshot := slices.Clone(entries)

	first := Compute(entries, day("2024-01-05"), time.UTC)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(entries, day("2024-01-05"), time.UTC))
	}
	assert.Equal(t, snapshot, entries)
}

func TestAnalyzer_IsLoggable(t *testing.T) {
	a := NewAnalyzer(entriesOn("2024-01-01", "2024-01-03"), day("2024-01-04"), time.UTC)

	tests := []struct {
		day  string
		want bool
	}{
		{"2023-12-31", false}, // last week
		{"2024-01-01", false}, // already logged
		{"2024-01-02", true},
		{"2024-01-03", false},
		{"2024-01-04", true}, // today
		{"2024-01-05", false}, // future
		{"2024-01-07", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, a.IsLoggable(day(tt.day)), tt.day)
	}
}

func TestAnalyzer_DayState(t *testing.T) {
	a := NewAnalyzer(entriesOn("2023-12-30", "2024-01-02", "2024-01-06"), day("2024-01-04"), time.UTC)

	assert.Equal(t, DayHasLog, a.DayState(day("2023-12-30")))
	assert.Equal(t, DayInactive, a.DayState(day("2023-12-31")))
	assert.Equal(t, DayLoggable, a.DayState(day("2024-01-01")))
	assert.Equal(t, DayHasLog, a.DayState(day("2024-01-02")))
	assert.Equal(t, DayLoggable, a.DayState(day("2024-01-04")))
	assert.Equal(t, DayInactive, a.DayState(day("2024-01-05")))
	// A future-dated log still renders as logged on the calendar.
	assert.Equal(t, DayHasLog, a.DayState(day("2024-01-06")))
}

func TestAnalyzer_ReusesSet(t *testing.T) {
	set := days("2024-01-01", "2024-01-02")
	a := NewAnalyzerFromSet(set, day("2024-01-02"))

	assert.Same(t, set, a.Days())
	assert.Equal(t, day("2024-01-02"), a.Now())
	assert.Equal(t, StreakState{Current: 2, Longest: 2}, a.Streaks())
	assert.Equal(t, DaysStat{Period: PeriodWeek, DaysLogged: 2, TotalDays: 7}, a.Period(PeriodWeek))
}

func TestAnalyzer_NilSetIsEmpty(t *testing.T) {
	now := day("2024-01-03")
	a := NewAnalyzerFromSet(nil, now)

	assert.Equal(t, Summary{}, a.Summary())
	assert.Equal(t, 0, a.Days().Len())
	assert.True(t, a.IsLoggable(now))
	assert.Equal(t, DayLoggable, a.DayState(now))
	assert.Equal(t, DaysStat{Period: PeriodAllTime}, a.Period(PeriodAllTime))
}
