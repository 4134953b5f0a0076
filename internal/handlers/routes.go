package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers は API の全ハンドラ
type Handlers struct {
	Users         *UserHandler
	Progress      *ProgressHandler
	Books         *BookHandler
	Highlights    *HighlightHandler
	Flashcards    *FlashcardHandler
	Feeds         *FeedHandler
	Notifications *NotificationHandler
}

// RegisterRoutes は /api/v1 以下のルートを登録する。
// POST /users 以外には auth (JWT または開発用の X-User-ID) が適用される。
func RegisterRoutes(r chi.Router, h Handlers, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/users", h.Users.CreateUser)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", h.Users.GetMe)
				r.Patch("/settings", h.Users.UpdateSettings)
				r.Get("/stats", h.Progress.GetStats)
				r.Get("/streak", h.Progress.GetStreak)
				r.Get("/badges", h.Progress.ListBadges)
			})

			r.Route("/books", func(r chi.Router) {
				r.Get("/", h.Books.ListBooks)
				r.Get("/saved", h.Books.ListSavedBooks)
				r.Route("/{book_id}", func(r chi.Router) {
					r.Get("/", h.Books.GetBook)
					r.Put("/save", h.Books.SaveBook)
					r.Delete("/save", h.Books.UnsaveBook)
					r.Post("/complete", h.Books.CompleteBook)
				})
			})

			r.Route("/highlights", func(r chi.Router) {
				r.Post("/", h.Highlights.CreateHighlight)
				r.Get("/", h.Highlights.ListHighlights)
				r.Delete("/{highlight_id}", h.Highlights.DeleteHighlight)
			})

			r.Route("/flashcards", func(r chi.Router) {
				r.Get("/due", h.Flashcards.ListDue)
				r.Put("/{flashcard_id}/review", h.Flashcards.Review)
			})

			r.Route("/feed", func(r chi.Router) {
				r.Get("/", h.Feeds.GetFeed)
				r.Get("/next", h.Feeds.NextItem)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notifications.List)
				r.Post("/{notification_id}/read", h.Notifications.MarkRead)
			})
		})
	})
}
