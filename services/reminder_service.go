package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"moodJournalAPI/internal/metrics"
	"moodJournalAPI/internal/notification"
	"moodJournalAPI/internal/streak"
)

// PushSender delivers a push notification to a user's devices.
// *notification.FCMService and notification.LogSender implement it.
type PushSender interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error
}

// ReminderCandidate is a user with at least one registered device.
type ReminderCandidate struct {
	UserID   uuid.UUID
	Timezone string
	Tokens   []notification.DeviceToken
}

// ReminderStore is the persistence the reminder run needs.
type ReminderStore interface {
	LogSource
	ReminderCandidates(ctx context.Context) ([]ReminderCandidate, error)
	// ClaimReminder records that userID is reminded on day. It reports false
	// when that already happened.
	ClaimReminder(ctx context.Context, userID uuid.UUID, day string) (bool, error)
	ReleaseReminder(ctx context.Context, userID uuid.UUID, day string) error
}

type ReminderService struct {
	store  ReminderStore
	sender PushSender
	hour   int
	now    func() time.Time
}

func NewReminderService(store ReminderStore, sender PushSender, reminderHour int) *ReminderService {
	return &ReminderService{store: store, sender: sender, hour: reminderHour, now: time.Now}
}

// SendStreakReminders pushes one reminder per user whose streak is still
// alive through yesterday, who has not logged today and whose local time is
// past the reminder hour. It returns how many reminders were delivered.
func (s *ReminderService) SendStreakReminders(ctx context.Context) (int, error) {
	candidates, err := s.store.ReminderCandidates(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, c := range candidates {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		reminder, err := s.reminderFor(ctx, c)
		if err != nil {
			log.Printf("Reminder worker: skipping user %s: %v", c.UserID, err)
			continue
		}
		if reminder == nil {
			continue
		}

		claimed, err := s.store.ClaimReminder(ctx, reminder.UserID, reminder.Day)
		if err != nil {
			log.Printf("Reminder worker: failed to claim reminder for %s: %v", c.UserID, err)
			continue
		}
		if !claimed {
			continue
		}

		title := "Don't break your streak!"
		body := fmt.Sprintf("Keep your %d-day streak going. Log how you feel today.", reminder.CurrentStreak)
		data := map[string]string{
			"type":           string(notification.NotificationStreakRisk),
			"current_streak": fmt.Sprint(reminder.CurrentStreak),
			"day":            reminder.Day,
		}

		if err := s.sender.SendPush(ctx, reminder.Tokens, title, body, data); err != nil {
			log.Printf("Reminder worker: push failed for %s: %v", c.UserID, err)
			if err := s.store.ReleaseReminder(ctx, reminder.UserID, reminder.Day); err != nil {
				log.Printf("Reminder worker: failed to release reminder for %s: %v", c.UserID, err)
			}
			continue
		}

		metrics.StreakRemindersSent.Inc()
		sent++
	}

	return sent, nil
}

// reminderFor returns nil when c does not need a reminder right now.
func (s *ReminderService) reminderFor(ctx context.Context, c ReminderCandidate) (*notification.StreakReminder, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, c.Timezone)
	}

	local := s.now().In(loc)
	if local.Hour() < s.hour {
		return nil, nil
	}

	entries, err := s.store.LogEntries(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	today := streak.DayOf(local, loc)
	analyzer := streak.NewAnalyzer(entries, today, loc)
	if analyzer.Days().Contains(today) {
		return nil, nil
	}

	current := analyzer.Streaks().Current
	if current == 0 {
		return nil, nil
	}

	return &notification.StreakReminder{
		UserID:        c.UserID,
		CurrentStreak: current,
		Day:           today.String(),
		Tokens:        c.Tokens,
	}, nil
}

// PgReminderStore is the Postgres ReminderStore.
type PgReminderStore struct {
	db *pgxpool.Pool
}

func NewPgReminderStore(db *pgxpool.Pool) *PgReminderStore {
	return &PgReminderStore{db: db}
}

func (r *PgReminderStore) LogEntries(ctx context.Context, userID uuid.UUID) ([]streak.LogEntry, error) {
	return queryLogEntries(ctx, r.db, userID)
}

func (r *PgReminderStore) ReminderCandidates(ctx context.Context) ([]ReminderCandidate, error) {
	query := `
	SELECT u.id, u.timezone, d.token, d.platform, d.added_at, d.last_used
	FROM users u
	JOIN device_tokens d ON d.user_id = u.id
	ORDER BY u.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminder candidates: %w", err)
	}
	defer rows.Close()

	var candidates []ReminderCandidate
	for rows.Next() {
		var tz string
		var t notification.DeviceToken
		if err := rows.Scan(&t.UserID, &tz, &t.Token, &t.Platform, &t.AddedAt, &t.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}

		if n := len(candidates); n > 0 && candidates[n-1].UserID == t.UserID {
			candidates[n-1].Tokens = append(candidates[n-1].Tokens, t)
			continue
		}
		candidates = append(candidates, ReminderCandidate{
			UserID:   t.UserID,
			Timezone: tz,
			Tokens:   []notification.DeviceToken{t},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device tokens: %w", err)
	}

	return candidates, nil
}

func (r *PgReminderStore) ClaimReminder(ctx context.Context, userID uuid.UUID, day string) (bool, error) {
	result, err := r.db.Exec(ctx, `
	INSERT INTO streak_reminders (user_id, day)
	VALUES ($1, $2::date)
	ON CONFLICT (user_id, day) DO NOTHING
	`, userID, day)
	if err != nil {
		return false, fmt.Errorf("failed to record reminder: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *PgReminderStore) ReleaseReminder(ctx context.Context, userID uuid.UUID, day string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM streak_reminders WHERE user_id = $1 AND day = $2::date`, userID, day)
	if err != nil {
		return fmt.Errorf("failed to release reminder: %w", err)
	}
	return nil
}
