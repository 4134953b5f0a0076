package handlers

import (
	"log/slog"
	"net/http"

	"kaiz1_core/internal/model"
	"kaiz1_core/internal/service"
	"kaiz1_core/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type HighlightHandler struct {
	highlights service.HighlightService
}

func NewHighlightHandler(highlights service.HighlightService) *HighlightHandler {
	return &HighlightHandler{highlights: highlights}
}

// CreateHighlight は POST /highlights
func (h *HighlightHandler) CreateHighlight(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "CreateHighlight")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.CreateHighlightRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	bookID, err := webutil.ParseUUIDParam(req.BookID, "book_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.highlights.CreateHighlight(r.Context(), userID, bookID, req.Text, req.Note)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Highlight created successfully", slog.String("highlight_id", resp.Highlight.HighlightID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}

// ListHighlights は GET /highlights?book_id=...
func (h *HighlightHandler) ListHighlights(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "ListHighlights")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	bookID := uuid.Nil
	if raw := r.URL.Query().Get("book_id"); raw != "" {
		id, err := webutil.ParseUUIDParam(raw, "book_id")
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		bookID = id
	}

	list, err := h.highlights.ListHighlights(r.Context(), userID, bookID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if list == nil {
		list = []model.Highlight{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, list, logger)
}

// DeleteHighlight は DELETE /highlights/{highlight_id}
func (h *HighlightHandler) DeleteHighlight(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "DeleteHighlight")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	highlightID, err := webutil.ParseUUIDParam(chi.URLParam(r, "highlight_id"), "highlight_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.highlights.DeleteHighlight(r.Context(), userID, highlightID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
