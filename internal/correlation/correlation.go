// Package correlation summarises how moods, activities and sleep line up over
// a Monday to Sunday week of mood logs.
package correlation

import (
	"math"
	"time"

	"moodJournalAPI/internal/streak"
)

// MinMoodLogs is how many logs a mood needs in a week before its activities
// are reported.
const MinMoodLogs = 3

const (
	SleepPoor   = "Poor"
	SleepMedium = "Medium"
	SleepGood   = "Good"
)

// MoodActivity is the week's most logged mood and the activity that shows up
// most often with it. Percentage is the share of that mood's logs that
// include the activity.
type MoodActivity struct {
	Mood       string  `json:"mood"`
	MoodLogs   int     `json:"mood_logs"`
	Activity   string  `json:"activity"`
	Percentage float64 `json:"percentage"`
}

type SleepShare struct {
	Quality    string  `json:"quality"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Weekly struct {
	WeekStart streak.DayKey `json:"week_start"`
	WeekEnd   streak.DayKey `json:"week_end"`
	Logs      int           `json:"logs"`
	TopMood   *MoodActivity `json:"top_mood"`
	Sleep     []SleepShare  `json:"sleep"`
	TopSleep  *SleepShare   `json:"top_sleep"`
}

// sleepBucket maps the 1-4 sleep scale onto poor/medium/good.
func sleepBucket(quality int) (int, bool) {
	switch quality {
	case 1, 2:
		return 0, true
	case 3:
		return 1, true
	case 4:
		return 2, true
	default:
		return 0, false
	}
}

// Week correlates the logs of the week containing day.
func Week(entries []streak.LogEntry, day streak.DayKey, loc *time.Location) Weekly {
	start := streak.WeekStart(day)
	end := start.AddDays(6)

	w := Weekly{
		WeekStart: start,
		WeekEnd:   end,
		Sleep: []SleepShare{
			{Quality: SleepPoor},
			{Quality: SleepMedium},
			{Quality: SleepGood},
		},
	}

	var moods []string
	logsByMood := make(map[string][]streak.LogEntry)
	sleepLogs := 0

	for _, e := range entries {
		d, ok := e.Day(loc)
		if !ok || d.Before(start) || d.After(end) {
			continue
		}
		w.Logs++

		if _, seen := logsByMood[e.Mood]; !seen {
			moods = append(moods, e.Mood)
		}
		logsByMood[e.Mood] = append(logsByMood[e.Mood], e)

		if i, ok := sleepBucket(e.SleepQuality); ok {
			w.Sleep[i].Count++
			sleepLogs++
		}
	}

	w.TopMood = topMood(moods, logsByMood)

	if sleepLogs > 0 {
		top := 0
		for i := range w.Sleep {
			w.Sleep[i].Percentage = percent(w.Sleep[i].Count, sleepLogs)
			if w.Sleep[i].Count >= w.Sleep[top].Count {
				top = i
			}
		}
		best := w.Sleep[top]
		w.TopSleep = &best
	}

	return w
}

// topMood picks the mood with the most logs, at least MinMoodLogs, earliest
// first on a tie. It is nil when no mood qualifies or the winner has no
// activities.
func topMood(moods []string, logsByMood map[string][]streak.LogEntry) *MoodActivity {
	best, moodLogs := "", 0
	for _, m := range moods {
		if n := len(logsByMood[m]); n >= MinMoodLogs && n > moodLogs {
			best, moodLogs = m, n
		}
	}
	if moodLogs == 0 {
		return nil
	}

	var activities []string
	counts := make(map[string]int)
	for _, e := range logsByMood[best] {
		seen := make(map[string]bool, len(e.Activities))
		for _, a := range e.Activities {
			if a == "" || seen[a] {
				continue
			}
			seen[a] = true
			if counts[a] == 0 {
				activities = append(activities, a)
			}
			counts[a]++
		}
	}

	var activity string
	for _, a := range activities {
		if counts[a] > counts[activity] {
			activity = a
		}
	}
	if activity == "" {
		return nil
	}

	return &MoodActivity{
		Mood:       best,
		MoodLogs:   moodLogs,
		Activity:   activity,
		Percentage: percent(counts[activity], moodLogs),
	}
}

// Month correlates every week whose Sunday falls in year/month and is not
// after today.
func Month(entries []streak.LogEntry, year int, month time.Month, today streak.DayKey, loc *time.Location) []Weekly {
	first := streak.NewDayKey(year, month, 1)

	weeks := []Weekly{}
	// The first Sunday on or after the 1st.
	for sunday := streak.WeekStart(first).AddDays(6); sunday.SameMonth(first); sunday = sunday.AddDays(7) {
		if sunday.After(today) {
			break
		}
		weeks = append(weeks, Week(entries, sunday, loc))
	}
	return weeks
}

// percent is 100*part/whole rounded to two decimals.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(whole)) / 100
}
