package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodJournalAPI/internal/user"
)

type stubAdminStore struct {
	gotSince time.Time
	gotYear  int
	err      error
}

func (s *stubAdminStore) GetActiveUsers(_ context.Context, since time.Time) ([]*user.ActiveUser, error) {
	s.gotSince = since
	if s.err != nil {
		return nil, s.err
	}
	return []*user.ActiveUser{{ClerkID: "user_1", LogCount: 3}}, nil
}

func (s *stubAdminStore) GetMonthlyUsers(_ context.Context, year int) ([]user.MonthlyUserCount, error) {
	s.gotYear = year
	if s.err != nil {
		return nil, s.err
	}
	return []user.MonthlyUserCount{
		{Month: 1, Name: "January", Count: 4},
		{Month: 2, Name: "February", Count: 0},
		{Month: 3, Name: "March", Count: 2},
	}, nil
}

func newTestAdminHandler(store AdminStore) *AdminHandler {
	h := NewAdminHandler(store)
	h.now = func() time.Time { return time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC) }
	return h
}

func TestAdminHandler_GetActiveUsers(t *testing.T) {
	store := &stubAdminStore{}
	rec := httptest.NewRecorder()
	newTestAdminHandler(store).GetActiveUsers(rec, httptest.NewRequest("GET", "/api/v1/admin/active-users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])
	assert.Equal(t, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), store.gotSince)
}

func TestAdminHandler_GetMonthlyUsers(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		year   int
	}{
		{"current year by default", "", http.StatusOK, 2024},
		{"explicit year", "?year=2023", http.StatusOK, 2023},
		{"bad year", "?year=abc", http.StatusBadRequest, 0},
		{"zero year", "?year=0", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubAdminStore{}
			rec := httptest.NewRecorder()
			newTestAdminHandler(store).GetMonthlyUsers(rec, httptest.NewRequest("GET", "/api/v1/admin/monthly-users"+tt.query, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.year, store.gotYear)
			if tt.status == http.StatusOK {
				body := decodeBody(t, rec)
				assert.Equal(t, float64(tt.year), body["year"])
				assert.Equal(t, float64(6), body["total"])
				assert.Len(t, body["months"], 3)
			}
		})
	}
}

func TestAdminHandler_StoreErrors(t *testing.T) {
	store := &stubAdminStore{err: errors.New("db down")}
	h := newTestAdminHandler(store)

	rec := httptest.NewRecorder()
	h.GetActiveUsers(rec, httptest.NewRequest("GET", "/api/v1/admin/active-users", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	h.GetMonthlyUsers(rec, httptest.NewRequest("GET", "/api/v1/admin/monthly-users", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
