package handlers

import (
	"net/http"

	"kaiz1_core/internal/service"
	"kaiz1_core/internal/webutil"
)

type FeedHandler struct {
	feeds service.FeedService
}

func NewFeedHandler(feeds service.FeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// GetFeed は GET /feed?weak=health,career
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "GetFeed")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	resp, err := h.feeds.GetFeed(r.Context(), userID, parseWeakDimensions(r))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// NextItem は GET /feed/next?weak=health,career
func (h *FeedHandler) NextItem(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "NextFeedItem")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	resp, err := h.feeds.NextItem(r.Context(), userID, parseWeakDimensions(r))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
