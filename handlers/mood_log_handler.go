package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"moodJournalAPI/internal/types/moodlog"
	"moodJournalAPI/middleware"
)

// MoodLogStore is implemented by *services.MoodLogService.
type MoodLogStore interface {
	AddMoodLog(ctx context.Context, clerkID string, req *moodlog.CreateMoodLogRequest) (*moodlog.MoodLog, error)
	ListMoodLogs(ctx context.Context, clerkID string, from, to string) ([]*moodlog.MoodLog, error)
	DeleteMoodLog(ctx context.Context, clerkID string, logID uuid.UUID) error
}

type MoodLogHandler struct {
	moodLogs MoodLogStore
}

func NewMoodLogHandler(moodLogs MoodLogStore) *MoodLogHandler {
	return &MoodLogHandler{moodLogs: moodLogs}
}

func (h *MoodLogHandler) CreateMoodLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req moodlog.CreateMoodLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.moodLogs.AddMoodLog(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, "CreateMoodLog", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

// ListMoodLogs serves GET /mood-log?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *MoodLogHandler) ListMoodLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	q := r.URL.Query()
	logs, err := h.moodLogs.ListMoodLogs(ctx, clerkID, q.Get("from"), q.Get("to"))
	if err != nil {
		respondWithServiceError(w, "ListMoodLogs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

func (h *MoodLogHandler) DeleteMoodLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	logID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mood log id")
		return
	}

	if err := h.moodLogs.DeleteMoodLog(ctx, clerkID, logID); err != nil {
		respondWithServiceError(w, "DeleteMoodLog", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Mood log deleted"})
}
