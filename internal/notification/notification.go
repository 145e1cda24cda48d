package notification

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationStreakRisk NotificationType = "streak_risk"
)

type DeviceToken struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Token    string    `json:"token" db:"token"`
	Platform string    `json:"platform" db:"platform"`
	AddedAt  time.Time `json:"added_at" db:"added_at"`
	LastUsed time.Time `json:"last_used" db:"last_used"`
}

// StreakReminder is one user whose streak ends tonight unless they log.
type StreakReminder struct {
	UserID        uuid.UUID
	CurrentStreak int
	Day           string
	Tokens        []DeviceToken
}
