package handlers

import (
	"log/slog"
	"net/http"

	"kaiz1_core/internal/model"
	"kaiz1_core/internal/service"
	"kaiz1_core/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type FlashcardHandler struct {
	flashcards service.FlashcardService
}

func NewFlashcardHandler(flashcards service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcards: flashcards}
}

// ListDue は GET /flashcards/due
func (h *FlashcardHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "ListDueFlashcards")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	cards, err := h.flashcards.ListDueFlashcards(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	total, err := h.flashcards.CountDueFlashcards(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if cards == nil {
		cards = []model.Flashcard{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.DueFlashcardsResponse{Flashcards: cards, TotalDue: total}, logger)
}

// Review は PUT /flashcards/{flashcard_id}/review
func (h *FlashcardHandler) Review(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "ReviewFlashcard")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	cardID, err := webutil.ParseUUIDParam(chi.URLParam(r, "flashcard_id"), "flashcard_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.ReviewFlashcardRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	res, err := h.flashcards.ReviewFlashcard(r.Context(), userID, cardID, *req.IsCorrect)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Flashcard reviewed successfully", slog.Bool("is_correct", *req.IsCorrect))
	webutil.RespondWithJSON(w, http.StatusOK, res, logger)
}
