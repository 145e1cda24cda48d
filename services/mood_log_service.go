package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"moodJournalAPI/internal/metrics"
	"moodJournalAPI/internal/streak"
	"moodJournalAPI/internal/types/moodlog"
)

// UserResolver maps an authenticated Clerk ID to the internal user and the
// location their days are counted in.
type UserResolver interface {
	ResolveUser(ctx context.Context, clerkID string) (uuid.UUID, *time.Location, error)
}

// LogSource returns every mood log of a user as engine entries.
type LogSource interface {
	LogEntries(ctx context.Context, userID uuid.UUID) ([]streak.LogEntry, error)
}

type MoodLogService struct {
	db    *pgxpool.Pool
	users UserResolver
	cache SummaryCache
	now   func() time.Time
}

// NewMoodLogService builds the service. cache may be nil.
func NewMoodLogService(db *pgxpool.Pool, users UserResolver, cache SummaryCache) *MoodLogService {
	return &MoodLogService{db: db, users: users, cache: cache, now: time.Now}
}

// AddMoodLog records a mood log. With req.Date set the log is back-filled
// onto that day, which has to be loggable right now.
func (s *MoodLogService) AddMoodLog(ctx context.Context, clerkID string, req *moodlog.CreateMoodLogRequest) (*moodlog.MoodLog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID, loc, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	date := now
	if req.Date != "" {
		day, err := streak.ParseDay(req.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}

		// Today always accepts more logs; other days only while loggable.
		today := streak.DayOf(now, loc)
		if day != today {
			entries, err := s.LogEntries(ctx, userID)
			if err != nil {
				return nil, err
			}
			if !streak.NewAnalyzer(entries, today, loc).IsLoggable(day) {
				return nil, fmt.Errorf("%w: %s", ErrDayNotLoggable, day)
			}
			date = day.In(loc)
		}
	}

	entry := &moodlog.MoodLog{
		UserID:       userID,
		Date:         date,
		Mood:         req.Mood,
		Activities:   nonNil(req.Activities),
		Social:       nonNil(req.Social),
		Health:       nonNil(req.Health),
		SleepQuality: req.SleepQuality,
	}

	query := `
	INSERT INTO mood_logs (user_id, date, mood, activities, social, health, sleep_quality)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at
	`

	err = s.db.QueryRow(
		ctx,
		query,
		entry.UserID,
		entry.Date,
		string(entry.Mood),
		entry.Activities,
		entry.Social,
		entry.Health,
		entry.SleepQuality,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create mood log: %w", err)
	}

	metrics.MoodLogsCreated.WithLabelValues(string(entry.Mood)).Inc()
	s.invalidate(ctx, userID)

	return entry, nil
}

// ListMoodLogs returns the user's logs between the inclusive days from and
// to. Either bound may be empty.
func (s *MoodLogService) ListMoodLogs(ctx context.Context, clerkID string, from, to string) ([]*moodlog.MoodLog, error) {
	userID, loc, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var fromTime, toTime *time.Time
	if from != "" {
		day, err := streak.ParseDay(from, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		t := day.In(loc)
		fromTime = &t
	}
	if to != "" {
		day, err := streak.ParseDay(to, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		t := day.AddDays(1).In(loc)
		toTime = &t
	}
	if fromTime != nil && toTime != nil && !fromTime.Before(*toTime) {
		return nil, ErrInvalidDateRange
	}

	query := `
	SELECT id, user_id, date, mood, activities, social, health, sleep_quality, created_at
	FROM mood_logs
	WHERE user_id = $1
		AND ($2::timestamptz IS NULL OR date >= $2)
		AND ($3::timestamptz IS NULL OR date < $3)
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, userID, fromTime, toTime)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mood logs: %w", err)
	}
	defer rows.Close()

	logs := []*moodlog.MoodLog{}
	for rows.Next() {
		m := &moodlog.MoodLog{}
		var mood string
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Date,
			&mood,
			&m.Activities,
			&m.Social,
			&m.Health,
			&m.SleepQuality,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mood log: %w", err)
		}
		m.Mood = moodlog.Mood(mood)
		logs = append(logs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mood logs: %w", err)
	}

	return logs, nil
}

func (s *MoodLogService) DeleteMoodLog(ctx context.Context, clerkID string, logID uuid.UUID) error {
	userID, _, err := s.users.ResolveUser(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM mood_logs WHERE id = $1 AND user_id = $2`, logID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete mood log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMoodLogNotFound
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *MoodLogService) LogEntries(ctx context.Context, userID uuid.UUID) ([]streak.LogEntry, error) {
	return queryLogEntries(ctx, s.db, userID)
}

func (s *MoodLogService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID.String()); err != nil {
		log.Printf("Failed to invalidate summary cache for %s: %v", userID, err)
	}
}

func queryLogEntries(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) ([]streak.LogEntry, error) {
	query := `
	SELECT date, mood, activities, sleep_quality
	FROM mood_logs
	WHERE user_id = $1
	ORDER BY date, created_at
	`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mood log dates: %w", err)
	}
	defer rows.Close()

	var entries []streak.LogEntry
	for rows.Next() {
		var e streak.LogEntry
		if err := rows.Scan(&e.Date, &e.Mood, &e.Activities, &e.SleepQuality); err != nil {
			return nil, fmt.Errorf("failed to scan mood log date: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mood log dates: %w", err)
	}

	return entries, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
