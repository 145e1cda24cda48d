package services

import (
	"context"
	"log"
	"time"

	"moodJournalAPI/internal/correlation"
	"moodJournalAPI/internal/metrics"
	"moodJournalAPI/internal/stats"
	"moodJournalAPI/internal/streak"
	"moodJournalAPI/internal/types/calendar"
)

// SummaryCache is the per-user stats cache. *cache.SummaryCache implements it.
// Get reports the user's current version alongside the payload; Set stores a
// payload computed against that version and Invalidate moves it on, so a
// payload computed before an invalidation is never served.
type SummaryCache interface {
	Get(ctx context.Context, userID, day, timezone string) (*stats.UserStats, int64, error)
	Set(ctx context.Context, userID string, version int64, day, timezone string, s *stats.UserStats) error
	Invalidate(ctx context.Context, userID string) error
}

// AnalyticsService turns a user's mood logs into streak and consistency
// statistics.
type AnalyticsService struct {
	users UserResolver
	logs  LogSource
	cache SummaryCache
	now   func() time.Time
}

// NewAnalyticsService builds the service. cache may be nil.
func NewAnalyticsService(users UserResolver, logs LogSource, cache SummaryCache) *AnalyticsService {
	return &AnalyticsService{users: users, logs: logs, cache: cache, now: time.Now}
}

func (s *AnalyticsService) analyzer(ctx context.Context, clerkID string) (*streak.Analyzer, error) {
	userID, loc, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	entries, err := s.logs.LogEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	return streak.NewAnalyzer(entries, streak.DayOf(s.now(), loc), loc), nil
}

func (s *AnalyticsService) GetUserStats(ctx context.Context, clerkID string) (*stats.UserStats, error) {
	userID, loc, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	today := streak.DayOf(s.now(), loc)
	key := userID.String()

	var version int64
	store := false
	if s.cache != nil {
		cached, v, err := s.cache.Get(ctx, key, today.String(), loc.String())
		switch {
		case err != nil:
			metrics.SummaryCacheRequests.WithLabelValues("error").Inc()
			log.Printf("Summary cache read failed for %s: %v", key, err)
		case cached != nil:
			metrics.SummaryCacheRequests.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.SummaryCacheRequests.WithLabelValues("miss").Inc()
			version, store = v, true
		}
	}

	entries, err := s.logs.LogEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	analyzer := streak.NewAnalyzer(entries, today, loc)
	result := &stats.UserStats{
		Summary:         analyzer.Summary(),
		TodayLogged:     analyzer.Days().Contains(today),
		TotalDaysLogged: analyzer.Days().Len(),
		Today:           today.String(),
		Timezone:        loc.String(),
	}

	if store {
		if err := s.cache.Set(ctx, key, version, today.String(), loc.String(), result); err != nil {
			log.Printf("Summary cache write failed for %s: %v", key, err)
		}
	}

	return result, nil
}

func (s *AnalyticsService) GetDaysStat(ctx context.Context, clerkID string, period streak.Period) (*streak.DaysStat, error) {
	analyzer, err := s.analyzer(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	stat := analyzer.Period(period)
	return &stat, nil
}

// GetCalendar returns one entry per day of the month with its state and the
// mood of the day's latest log. A zero year or month is taken from today in
// the user's timezone.
func (s *AnalyticsService) GetCalendar(ctx context.Context, clerkID string, year int, month int) (*calendar.CalendarResponse, error) {
	if err := checkMonth(year, month); err != nil {
		return nil, err
	}

	userID, loc, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	today := streak.DayOf(s.now(), loc)
	year, month = defaultMonth(year, month, today)

	entries, err := s.logs.LogEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	analyzer := streak.NewAnalyzer(entries, today, loc)

	moods := make(map[streak.DayKey]string)
	for _, e := range entries {
		if day, ok := e.Day(loc); ok {
			moods[day] = e.Mood
		}
	}

	first := streak.NewDayKey(year, time.Month(month), 1)
	days := make([]*calendar.CalendarDay, 0, first.DaysInMonth())
	for d := first; d.SameMonth(first); d = d.AddDays(1) {
		days = append(days, &calendar.CalendarDay{
			Date:    d,
			State:   analyzer.DayState(d),
			Mood:    moods[d],
			IsToday: d == today,
		})
	}

	return &calendar.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}, nil
}

// GetWeeklyCorrelation correlates moods, activities and sleep over the
// current week in the user's timezone.
func (s *AnalyticsService) GetWeeklyCorrelation(ctx context.Context, clerkID string) (*correlation.Weekly, error) {
	userID, loc, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	entries, err := s.logs.LogEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	week := correlation.Week(entries, streak.DayOf(s.now(), loc), loc)
	return &week, nil
}

// GetMonthlyCorrelation returns the weekly correlation of every week that
// ended in the month so far. Zero year or month default like GetCalendar.
func (s *AnalyticsService) GetMonthlyCorrelation(ctx context.Context, clerkID string, year int, month int) ([]correlation.Weekly, error) {
	if err := checkMonth(year, month); err != nil {
		return nil, err
	}

	userID, loc, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	entries, err := s.logs.LogEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := streak.DayOf(s.now(), loc)
	year, month = defaultMonth(year, month, today)
	return correlation.Month(entries, year, time.Month(month), today, loc), nil
}

func checkMonth(year, month int) error {
	if month < 0 || month > 12 || year < 0 {
		return ErrInvalidMonth
	}
	return nil
}

// defaultMonth fills a zero year or month from today.
func defaultMonth(year, month int, today streak.DayKey) (int, int) {
	if year == 0 {
		year = today.Year
	}
	if month == 0 {
		month = int(today.Month)
	}
	return year, month
}
