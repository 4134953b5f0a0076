package handlers

import (
	"net/http"

	"kaiz1_core/internal/model"
	"kaiz1_core/internal/service"
	"kaiz1_core/internal/webutil"
)

type ProgressHandler struct {
	progress service.ProgressService
}

func NewProgressHandler(progress service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GetStats は GET /me/stats
func (h *ProgressHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "GetStats")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	stats, err := h.progress.GetStats(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// GetStreak は GET /me/streak
func (h *ProgressHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "GetStreak")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	streak, err := h.progress.GetStreak(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, streak, logger)
}

// ListBadges は GET /me/badges
func (h *ProgressHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "ListBadges")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	badges, err := h.progress.ListBadges(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if badges == nil {
		badges = []model.Badge{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, badges, logger)
}
