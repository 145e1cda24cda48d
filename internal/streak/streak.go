package streak

// StreakState holds the two streak figures computed for a single reference day.
type StreakState struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// CurrentStreak counts consecutive logged days ending at now. A streak that
// was alive yesterday stays alive until now ends, so when now has no log the
// walk starts from the day before.
func CurrentStreak(set *DaySet, now DayKey) int {
	day := now
	if !set.Contains(day) {
		day = day.AddDays(-1)
	}

	count := 0
	for set.Contains(day) {
		count++
		day = day.AddDays(-1)
	}
	return count
}

// LongestStreak is the longest run of consecutive calendar days anywhere in
// the set.
func LongestStreak(set *DaySet) int {
	days := set.sorted()
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].DaysUntil(days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

func Streaks(set *DaySet, now DayKey) StreakState {
	return StreakState{
		Current: CurrentStreak(set, now),
		Longest: LongestStreak(set),
	}
}
