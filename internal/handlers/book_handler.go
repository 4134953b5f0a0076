package handlers

import (
	"log/slog"
	"net/http"

	"kaiz1_core/internal/model"
	"kaiz1_core/internal/service"
	"kaiz1_core/internal/webutil"

	"github.com/go-chi/chi/v5"
)

// IdempotencyKeyHeader を付けた読了リクエストは再送しても二重に記録されない
const IdempotencyKeyHeader = "Idempotency-Key"

type BookHandler struct {
	books service.BookService
}

func NewBookHandler(books service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// ListBooks は GET /books?category=...
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "ListBooks")
	books, err := h.books.ListBooks(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, books, logger)
}

// GetBook は GET /books/{book_id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "GetBook")
	bookID, err := webutil.ParseUUIDParam(chi.URLParam(r, "book_id"), "book_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	book, err := h.books.GetBook(r.Context(), bookID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, book, logger)
}

// ListSavedBooks は GET /books/saved
func (h *BookHandler) ListSavedBooks(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "ListSavedBooks")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	books, err := h.books.ListSavedBooks(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, books, logger)
}

// SaveBook は PUT /books/{book_id}/save
func (h *BookHandler) SaveBook(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "SaveBook")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	bookID, err := webutil.ParseUUIDParam(chi.URLParam(r, "book_id"), "book_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.books.SaveBook(r.Context(), userID, bookID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnsaveBook は DELETE /books/{book_id}/save
func (h *BookHandler) UnsaveBook(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "UnsaveBook")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	bookID, err := webutil.ParseUUIDParam(chi.URLParam(r, "book_id"), "book_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.books.UnsaveBook(r.Context(), userID, bookID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteBook は POST /books/{book_id}/complete
func (h *BookHandler) CompleteBook(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "CompleteBook")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	bookID, err := webutil.ParseUUIDParam(chi.URLParam(r, "book_id"), "book_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.books.CompleteBook(r.Context(), userID, bookID, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		logger.Warn("Failed to complete book", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Book completed successfully", slog.Int("events", len(result.Events)))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
