package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MoodLogsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_logs_created_total",
			Help: "Total number of mood logs created",
		},
		[]string{"mood"},
	)
	SummaryCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_cache_requests_total",
			Help: "Summary cache lookups by result",
		},
		[]string{"result"},
	)
	StreakRemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streak_reminders_sent_total",
			Help: "Total number of streak-at-risk reminders delivered",
		},
	)
)

// Collectors lists the domain metrics for registration alongside the HTTP ones.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{MoodLogsCreated, SummaryCacheRequests, StreakRemindersSent}
}
