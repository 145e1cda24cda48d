package stats

import "moodJournalAPI/internal/streak"

// UserStats is the payload of GET /user/stats.
type UserStats struct {
	streak.Summary
	TodayLogged     bool   `json:"today_logged"`
	TotalDaysLogged int    `json:"total_days_logged"`
	Today           string `json:"today"`
	Timezone        string `json:"timezone"`
}
