package handlers

import (
	"net/http"
	"strconv"

	"kaiz1_core/internal/model"
	"kaiz1_core/internal/service"
	"kaiz1_core/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List は GET /notifications?unread=true
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "ListNotifications")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			webutil.HandleError(w, logger, model.NewAppError("INVALID_QUERY_PARAM", "unreadの形式が正しくありません。", "unread", model.ErrInvalidInput))
			return
		}
		unreadOnly = v
	}

	list, err := h.notifications.ListNotifications(r.Context(), userID, unreadOnly)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, list, logger)
}

// MarkRead は POST /notifications/{notification_id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "MarkNotificationRead")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	id, err := webutil.ParseUUIDParam(chi.URLParam(r, "notification_id"), "notification_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.notifications.MarkNotificationRead(r.Context(), userID, id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
