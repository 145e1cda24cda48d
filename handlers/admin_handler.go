package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"moodJournalAPI/internal/user"
)

// activeWindow is how far back a log makes a user count as active.
const activeWindow = 14 * 24 * time.Hour

// AdminStore is implemented by *services.UserService.
type AdminStore interface {
	GetActiveUsers(ctx context.Context, since time.Time) ([]*user.ActiveUser, error)
	GetMonthlyUsers(ctx context.Context, year int) ([]user.MonthlyUserCount, error)
}

type AdminHandler struct {
	users AdminStore
	now   func() time.Time
}

func NewAdminHandler(users AdminStore) *AdminHandler {
	return &AdminHandler{users: users, now: time.Now}
}

func (h *AdminHandler) GetActiveUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users, err := h.users.GetActiveUsers(ctx, h.now().Add(-activeWindow))
	if err != nil {
		log.Printf("GetActiveUsers: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch active users")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(users),
		"users": users,
	})
}

// GetMonthlyUsers serves /admin/monthly-users?year=, defaulting to the
// current UTC year.
func (h *AdminHandler) GetMonthlyUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	year := h.now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = y
	}

	months, err := h.users.GetMonthlyUsers(ctx, year)
	if err != nil {
		log.Printf("GetMonthlyUsers: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch monthly users")
		return
	}

	total := 0
	for _, m := range months {
		total += m.Count
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"total":  total,
		"months": months,
	})
}
