package services

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrMoodLogNotFound  = errors.New("mood log not found")
	ErrDayNotLoggable   = errors.New("day cannot be logged anymore")
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
)
