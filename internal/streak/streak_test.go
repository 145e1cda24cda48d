package streak

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func days(ss ...string) *DaySet {
	keys := make([]DayKey, len(ss))
	for i, s := range ss {
		keys[i] = day(s)
	}
	return DaySetOf(keys...)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		set  *DaySet
		now  string
		want int
	}{
		{"empty", days(), "2024-01-03", 0},
		{"consecutive ending today", days("2024-01-01", "2024-01-02", "2024-01-03"), "2024-01-03", 3},
		{"gap before today", days("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"), "2024-01-05", 1},
		{"today not logged yet keeps yesterday's run", days("2024-01-01", "2024-01-02"), "2024-01-03", 2},
		{"two days missed breaks run", days("2024-01-01", "2024-01-02"), "2024-01-04", 0},
		{"only today", days("2024-01-03"), "2024-01-03", 1},
		{"future logs ignored", days("2024-01-04", "2024-01-05"), "2024-01-03", 0},
		{"across month boundary", days("2024-01-30", "2024-01-31", "2024-02-01"), "2024-02-01", 3},
		{"across leap day", days("2024-02-28", "2024-02-29", "2024-03-01"), "2024-03-02", 3},
		{"across year boundary", days("2023-12-30", "2023-12-31", "2024-01-01"), "2024-01-01", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.set, day(tt.now)))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		set  *DaySet
		want int
	}{
		{"empty", days(), 0},
		{"single day", days("2024-01-01"), 1},
		{"all consecutive", days("2024-01-01", "2024-01-02", "2024-01-03"), 3},
		{"longest run first", days("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"), 3},
		{"longest run last", days("2024-01-01", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"), 4},
		{"isolated days", days("2024-01-01", "2024-01-03", "2024-01-05"), 1},
		{"same day of next month is not consecutive", days("2024-01-15", "2024-02-15"), 1},
		{"year boundary", days("2023-12-31", "2024-01-01"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestStreak(tt.set))
		})
	}
}

func TestStreaks_Scenarios(t *testing.T) {
	t.Run("three consecutive days logged through today", func(t *testing.T) {
		got := Streaks(days("2024-01-01", "2024-01-02", "2024-01-03"), day("2024-01-03"))
		assert.Equal(t, StreakState{Current: 3, Longest: 3}, got)
	})

	t.Run("gap then a single day today", func(t *testing.T) {
		got := Streaks(days("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"), day("2024-01-05"))
		assert.Equal(t, StreakState{Current: 1, Longest: 3}, got)
	})

	t.Run("yesterday logged, today open", func(t *testing.T) {
		got := Streaks(days("2024-01-02"), day("2024-01-03"))
		assert.Equal(t, StreakState{Current: 1, Longest: 1}, got)
	})
}

func randomSet(r *rand.Rand, around DayKey) *DaySet {
	n := r.Intn(40)
	keys := make([]DayKey, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, around.AddDays(r.Intn(60)-45))
	}
	return DaySetOf(keys...)
}

func TestStreaks_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	now := day("2024-05-15")

	for i := 0; i < 500; i++ {
		set := randomSet(r, now)
		st := Streaks(set, now)

		assert.GreaterOrEqual(t, st.Current, 0)
		assert.GreaterOrEqual(t, st.Longest, st.Current, "longest must cover the current run")
		assert.LessOrEqual(t, st.Longest, set.Len())

		if !set.Contains(now) {
			withToday := DaySetOf(append(set.Days(), now)...)
			assert.GreaterOrEqual(t, CurrentStreak(withToday, now), st.Current,
				"logging today must never shrink the current streak")
		}

		assert.Equal(t, st, Streaks(set, now), "repeated calls must agree")
	}
}
