package moodlog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Mood string

const (
	MoodRelaxed Mood = "Relaxed"
	MoodHappy   Mood = "Happy"
	MoodFine    Mood = "Fine"
	MoodAngry   Mood = "Angry"
	MoodSad     Mood = "Sad"
	MoodAnxious Mood = "Anxious"
)

var validMoods = map[Mood]bool{
	MoodRelaxed: true,
	MoodHappy:   true,
	MoodFine:    true,
	MoodAngry:   true,
	MoodSad:     true,
	MoodAnxious: true,
}

func (m Mood) Valid() bool {
	return validMoods[m]
}

type MoodLog struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Date         time.Time `json:"date" db:"date"`
	Mood         Mood      `json:"mood" db:"mood"`
	Activities   []string  `json:"activities" db:"activities"`
	Social       []string  `json:"social" db:"social"`
	Health       []string  `json:"health" db:"health"`
	SleepQuality int       `json:"sleep_quality" db:"sleep_quality"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateMoodLogRequest struct {
	Mood         Mood     `json:"mood" validate:"required"`
	Activities   []string `json:"activities"`
	Social       []string `json:"social"`
	Health       []string `json:"health"`
	SleepQuality int      `json:"sleep_quality" validate:"min=1,max=4"`
	// Date is an optional YYYY-MM-DD day used when filling in an earlier
	// day of the week from the calendar. Empty means now.
	Date string `json:"date,omitempty"`
}

var (
	ErrInvalidMood         = errors.New("mood must be one of Relaxed, Happy, Fine, Angry, Sad, Anxious")
	ErrInvalidSleepQuality = errors.New("sleep_quality must be between 1 and 4")
)

func (r *CreateMoodLogRequest) Validate() error {
	if !r.Mood.Valid() {
		return ErrInvalidMood
	}
	if r.SleepQuality < 1 || r.SleepQuality > 4 {
		return ErrInvalidSleepQuality
	}
	for _, list := range [][]string{r.Activities, r.Social, r.Health} {
		if len(list) > 20 {
			return fmt.Errorf("too many tags: %d", len(list))
		}
	}
	return nil
}
