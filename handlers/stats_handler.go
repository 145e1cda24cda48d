package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"moodJournalAPI/internal/correlation"
	"moodJournalAPI/internal/stats"
	"moodJournalAPI/internal/streak"
	"moodJournalAPI/internal/types/calendar"
	"moodJournalAPI/middleware"
	"moodJournalAPI/services"
)

// StatsProvider is implemented by *services.AnalyticsService.
type StatsProvider interface {
	GetUserStats(ctx context.Context, clerkID string) (*stats.UserStats, error)
	GetDaysStat(ctx context.Context, clerkID string, period streak.Period) (*streak.DaysStat, error)
	GetCalendar(ctx context.Context, clerkID string, year int, month int) (*calendar.CalendarResponse, error)
	GetWeeklyCorrelation(ctx context.Context, clerkID string) (*correlation.Weekly, error)
	GetMonthlyCorrelation(ctx context.Context, clerkID string, year int, month int) ([]correlation.Weekly, error)
}

type StatsHandler struct {
	stats StatsProvider
}

func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.stats.GetUserStats(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, "GetUserStats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetDaysStat serves /user/stats/{period}.
func (h *StatsHandler) GetDaysStat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	period, err := streak.ParsePeriod(mux.Vars(r)["period"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	stat, err := h.stats.GetDaysStat(ctx, clerkID, period)
	if err != nil {
		respondWithServiceError(w, "GetDaysStat", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stat)
}

// GetCalendar serves /user/calendar?year=&month=. Missing values default to
// the current month in the user's timezone.
func (h *StatsHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	year, month, msg := parseYearMonth(r)
	if msg != "" {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	cal, err := h.stats.GetCalendar(ctx, clerkID, year, month)
	if err != nil {
		respondWithServiceError(w, "GetCalendar", err)
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

func (h *StatsHandler) GetWeeklyCorrelation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	week, err := h.stats.GetWeeklyCorrelation(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, "GetWeeklyCorrelation", err)
		return
	}

	respondWithJSON(w, http.StatusOK, week)
}

// GetMonthlyCorrelation serves /user/correlation/monthly?year=&month=.
func (h *StatsHandler) GetMonthlyCorrelation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	year, month, msg := parseYearMonth(r)
	if msg != "" {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	weeks, err := h.stats.GetMonthlyCorrelation(ctx, clerkID, year, month)
	if err != nil {
		respondWithServiceError(w, "GetMonthlyCorrelation", err)
		return
	}

	respondWithJSON(w, http.StatusOK, weeks)
}

// parseYearMonth reads the optional year and month query values. Missing
// values come back as zero; msg is set when a value is present but invalid.
func parseYearMonth(r *http.Request) (year, month int, msg string) {
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			return 0, 0, "Invalid year"
		}
		year = y
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 {
			return 0, 0, "Invalid month"
		}
		month = m
	}
	return year, month, ""
}

// respondWithServiceError maps service sentinel errors to HTTP statuses.
func respondWithServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrMoodLogNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDayNotLoggable):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidTimezone):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, http.StatusGatewayTimeout, "Request timed out")
	default:
		log.Printf("%s: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
