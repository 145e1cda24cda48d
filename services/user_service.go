package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moodJournalAPI/internal/notification"
	"moodJournalAPI/internal/user"
)

type UserService struct {
	db              *pgxpool.Pool
	defaultTimezone string
}

func NewUserService(db *pgxpool.Pool, defaultTimezone string) *UserService {
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &UserService{db: db, defaultTimezone: defaultTimezone}
}

const userColumns = `id, clerk_id, email, username, first_name, last_name, image_url, email_verified, timezone, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var id uuid.UUID
	err := row.Scan(
		&id,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.Timezone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.ID = id.String()
	return u, nil
}

// CreateUser stores the user announced by the Clerk webhook. A row created
// earlier by EnsureUser is filled in instead of failing.
func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	query := `
	INSERT INTO users (clerk_id, email, username, first_name, last_name, image_url, timezone)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (clerk_id)
	DO UPDATE SET
		email = EXCLUDED.email,
		username = EXCLUDED.username,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		image_url = EXCLUDED.image_url,
		updated_at = NOW()
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(
		ctx,
		query,
		req.ClerkID,
		req.Email,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ImageURL,
		s.defaultTimezone,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// EnsureUser returns the user for clerkID, creating a bare row when the
// webhook has not arrived yet.
func (s *UserService) EnsureUser(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	INSERT INTO users (clerk_id, timezone)
	VALUES ($1, $2)
	ON CONFLICT (clerk_id) DO UPDATE SET clerk_id = EXCLUDED.clerk_id
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, clerkID, s.defaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`

	u, err := scanUser(s.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// ResolveUser maps a Clerk ID to the internal user ID and the location the
// user's days are counted in.
func (s *UserService) ResolveUser(ctx context.Context, clerkID string) (uuid.UUID, *time.Location, error) {
	var userID uuid.UUID
	var tz string
	err := s.db.QueryRow(ctx, `SELECT id, timezone FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID, &tz)
	if errors.Is(err, pgx.ErrNoRows) {
		u, ensureErr := s.EnsureUser(ctx, clerkID)
		if ensureErr != nil {
			return uuid.Nil, nil, ensureErr
		}
		userID, err = uuid.Parse(u.ID)
		tz = u.Timezone
	}
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return userID, s.location(tz), nil
}

func (s *UserService) location(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to %s", tz, s.defaultTimezone)
		loc, err = time.LoadLocation(s.defaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		first_name = COALESCE(NULLIF($3, ''), first_name),
		last_name = COALESCE(NULLIF($4, ''), last_name),
		image_url = COALESCE(NULLIF($5, ''), image_url),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ImageURL,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// UpdateTimezone changes the zone the user's calendar days are counted in.
func (s *UserService) UpdateTimezone(ctx context.Context, clerkID string, tz string) (*user.User, error) {
	if tz == "" {
		return nil, ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}

	if _, err := s.EnsureUser(ctx, clerkID); err != nil {
		return nil, err
	}

	query := `
	UPDATE users
	SET timezone = $2, updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, clerkID, tz))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update timezone: %w", err)
	}

	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	query := `DELETE FROM users WHERE clerk_id = $1`

	result, err := s.db.Exec(ctx, query, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	query := `
	UPDATE users
	SET email_verified = $2, updated_at = NOW()
	WHERE clerk_id = $1
	`

	_, err := s.db.Exec(ctx, query, clerkID, verified)
	if err != nil {
		return fmt.Errorf("failed to update email verification: %w", err)
	}
	return nil
}

// RegisterDevice stores a push token for the user. Re-registering a known
// token refreshes it.
func (s *UserService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	userID, _, err := s.ResolveUser(ctx, clerkID)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO device_tokens (user_id, token, platform, added_at, last_used)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (user_id, token)
	DO UPDATE SET
		platform = EXCLUDED.platform,
		last_used = NOW()
	`

	if _, err := s.db.Exec(ctx, query, userID, req.Token, req.Platform); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

// GetActiveUsers lists users with at least one mood log since the given time,
// most recently active first.
func (s *UserService) GetActiveUsers(ctx context.Context, since time.Time) ([]*user.ActiveUser, error) {
	query := `
	SELECT u.id, u.clerk_id, u.email, u.username, MAX(m.date) AS last_log_date, COUNT(m.id) AS log_count
	FROM users u
	JOIN mood_logs m ON m.user_id = u.id
	WHERE m.date >= $1
	GROUP BY u.id, u.clerk_id, u.email, u.username
	ORDER BY last_log_date DESC
	`

	rows, err := s.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active users: %w", err)
	}
	defer rows.Close()

	users := []*user.ActiveUser{}
	for rows.Next() {
		var id uuid.UUID
		u := &user.ActiveUser{}
		if err := rows.Scan(&id, &u.ClerkID, &u.Email, &u.Username, &u.LastLogDate, &u.LogCount); err != nil {
			return nil, fmt.Errorf("failed to scan active user: %w", err)
		}
		u.ID = id.String()
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active users: %w", err)
	}

	return users, nil
}

// GetMonthlyUsers counts sign-ups per month of year, in UTC. Every month is
// present; months without sign-ups count zero.
func (s *UserService) GetMonthlyUsers(ctx context.Context, year int) ([]user.MonthlyUserCount, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidDateRange, year)
	}

	query := `
	SELECT EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month, COUNT(*)::int
	FROM users
	WHERE created_at >= $1 AND created_at < $2
	GROUP BY month
	`

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.db.Query(ctx, query, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly users: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly users: %w", err)
		}
		counts[month] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly users: %w", err)
	}

	return monthlyCounts(counts), nil
}

func monthlyCounts(counts map[int]int) []user.MonthlyUserCount {
	out := make([]user.MonthlyUserCount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, user.MonthlyUserCount{
			Month: int(m),
			Name:  m.String(),
			Count: counts[int(m)],
		})
	}
	return out
}
