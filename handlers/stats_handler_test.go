package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodJournalAPI/internal/correlation"
	"moodJournalAPI/internal/stats"
	"moodJournalAPI/internal/streak"
	"moodJournalAPI/internal/types/calendar"
	"moodJournalAPI/middleware"
	"moodJournalAPI/services"
)

type stubStats struct {
	gotPeriod streak.Period
	gotYear   int
	gotMonth  int
	err       error
}

func (s *stubStats) GetUserStats(_ context.Context, clerkID string) (*stats.UserStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &stats.UserStats{
		Summary:         streak.Summary{CurrentStreak: 4, LongestStreak: 9},
		TodayLogged:     true,
		TotalDaysLogged: 30,
		Today:           "2024-03-14",
		Timezone:        "UTC",
	}, nil
}

func (s *stubStats) GetDaysStat(_ context.Context, clerkID string, period streak.Period) (*streak.DaysStat, error) {
	s.gotPeriod = period
	if s.err != nil {
		return nil, s.err
	}
	return &streak.DaysStat{Period: period, DaysLogged: 3, TotalDays: 7}, nil
}

func (s *stubStats) GetCalendar(_ context.Context, clerkID string, year int, month int) (*calendar.CalendarResponse, error) {
	s.gotYear, s.gotMonth = year, month
	if s.err != nil {
		return nil, s.err
	}
	return &calendar.CalendarResponse{Year: year, Month: month}, nil
}

func (s *stubStats) GetWeeklyCorrelation(_ context.Context, clerkID string) (*correlation.Weekly, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &correlation.Weekly{
		Logs:     4,
		TopMood:  &correlation.MoodActivity{Mood: "Happy", MoodLogs: 4, Activity: "Sport", Percentage: 75},
		TopSleep: &correlation.SleepShare{Quality: correlation.SleepGood, Count: 2, Percentage: 50},
	}, nil
}

func (s *stubStats) GetMonthlyCorrelation(_ context.Context, clerkID string, year int, month int) ([]correlation.Weekly, error) {
	s.gotYear, s.gotMonth = year, month
	if s.err != nil {
		return nil, s.err
	}
	return []correlation.Weekly{{Logs: 1}, {Logs: 2}}, nil
}

func statsRouter(h *StatsHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/user/stats", h.GetUserStats).Methods("GET")
	r.HandleFunc("/api/v1/user/stats/{period}", h.GetDaysStat).Methods("GET")
	r.HandleFunc("/api/v1/user/calendar", h.GetCalendar).Methods("GET")
	r.HandleFunc("/api/v1/user/correlation/weekly", h.GetWeeklyCorrelation).Methods("GET")
	r.HandleFunc("/api/v1/user/correlation/monthly", h.GetMonthlyCorrelation).Methods("GET")
	return r
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.WithClerkID(req.Context(), "user_1"))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetUserStats(t *testing.T) {
	rec := httptest.NewRecorder()
	statsRouter(NewStatsHandler(&stubStats{})).ServeHTTP(rec, authedRequest("GET", "/api/v1/user/stats"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(4), body["current_streak"])
	assert.Equal(t, float64(9), body["longest_streak"])
	assert.Equal(t, true, body["today_logged"])
	assert.Equal(t, "2024-03-14", body["today"])
	assert.Len(t, body["week_progress"], 7)
}

func TestGetUserStats_Unauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/user/stats", nil)
	statsRouter(NewStatsHandler(&stubStats{})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetDaysStat(t *testing.T) {
	tests := []struct {
		path   string
		status int
		period streak.Period
	}{
		{"/api/v1/user/stats/weekly", http.StatusOK, streak.PeriodWeek},
		{"/api/v1/user/stats/monthly", http.StatusOK, streak.PeriodMonth},
		{"/api/v1/user/stats/yearly", http.StatusOK, streak.PeriodYear},
		{"/api/v1/user/stats/all-time", http.StatusOK, streak.PeriodAllTime},
		{"/api/v1/user/stats/fortnightly", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			stub := &stubStats{}
			rec := httptest.NewRecorder()
			statsRouter(NewStatsHandler(stub)).ServeHTTP(rec, authedRequest("GET", tt.path))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.period, stub.gotPeriod)
			if tt.status == http.StatusOK {
				assert.Equal(t, string(tt.period), decodeBody(t, rec)["period"])
			}
		})
	}
}

func TestGetCalendar(t *testing.T) {
	tests := []struct {
		query  string
		status int
		year   int
		month  int
	}{
		// The service resolves missing values in the user's timezone.
		{"", http.StatusOK, 0, 0},
		{"?year=2023&month=12", http.StatusOK, 2023, 12},
		{"?month=2", http.StatusOK, 0, 2},
		{"?month=abc", http.StatusBadRequest, 0, 0},
		{"?month=0", http.StatusBadRequest, 0, 0},
		{"?year=-1", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			stub := &stubStats{}
			rec := httptest.NewRecorder()
			statsRouter(NewStatsHandler(stub)).ServeHTTP(rec, authedRequest("GET", "/api/v1/user/calendar"+tt.query))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.year, stub.gotYear)
			assert.Equal(t, tt.month, stub.gotMonth)
		})
	}
}

func TestGetWeeklyCorrelation(t *testing.T) {
	rec := httptest.NewRecorder()
	statsRouter(NewStatsHandler(&stubStats{})).ServeHTTP(rec, authedRequest("GET", "/api/v1/user/correlation/weekly"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(4), body["logs"])
	topMood := body["top_mood"].(map[string]interface{})
	assert.Equal(t, "Happy", topMood["mood"])
	assert.Equal(t, "Sport", topMood["activity"])
	assert.Equal(t, 75.0, topMood["percentage"])
	assert.Equal(t, "Good", body["top_sleep"].(map[string]interface{})["quality"])

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/user/correlation/weekly", nil)
	statsRouter(NewStatsHandler(&stubStats{})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMonthlyCorrelation(t *testing.T) {
	stub := &stubStats{}
	rec := httptest.NewRecorder()
	statsRouter(NewStatsHandler(stub)).ServeHTTP(rec, authedRequest("GET", "/api/v1/user/correlation/monthly?year=2024&month=3"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, stub.gotYear)
	assert.Equal(t, 3, stub.gotMonth)

	var weeks []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &weeks))
	assert.Len(t, weeks, 2)

	rec = httptest.NewRecorder()
	statsRouter(NewStatsHandler(&stubStats{err: services.ErrInvalidMonth})).ServeHTTP(rec, authedRequest("GET", "/api/v1/user/correlation/monthly?month=13"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrUserNotFound, http.StatusNotFound},
		{services.ErrInvalidMonth, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			statsRouter(NewStatsHandler(&stubStats{err: tt.err})).ServeHTTP(rec, authedRequest("GET", "/api/v1/user/calendar?month=13"))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
		})
	}
}
