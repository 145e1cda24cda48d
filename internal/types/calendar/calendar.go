package calendar

import "moodJournalAPI/internal/streak"

type CalendarDay struct {
	Date    streak.DayKey   `json:"date"`
	State   streak.DayState `json:"state"`
	Mood    string          `json:"mood,omitempty"`
	IsToday bool            `json:"is_today"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
