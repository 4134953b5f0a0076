package handlers

import (
	"log/slog"
	"net/http"

	"kaiz1_core/internal/model"
	"kaiz1_core/internal/service"
	"kaiz1_core/internal/webutil"

	"github.com/google/uuid"
)

// TokenIssuer は作成したユーザー用のアクセストークンを発行する
type TokenIssuer func(userID uuid.UUID) (string, error)

type UserHandler struct {
	users      service.UserService
	issueToken TokenIssuer
}

// NewUserHandler は issueToken が nil の場合トークンを発行しない (開発用の X-User-ID 認証)
func NewUserHandler(users service.UserService, issueToken TokenIssuer) *UserHandler {
	return &UserHandler{users: users, issueToken: issueToken}
}

// CreateUser は POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "CreateUser")

	var req model.CreateUserRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	user, stats, err := h.users.CreateUser(r.Context(), req.Name)
	if err != nil {
		logger.Error("Error creating user in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp := model.CreateUserResponse{User: user, Stats: stats}
	if h.issueToken != nil {
		token, err := h.issueToken(user.UserID)
		if err != nil {
			logger.Error("Failed to issue access token", slog.Any("error", err))
			webutil.HandleError(w, logger, model.NewAppError("INTERNAL_SERVER_ERROR", "アクセストークンの発行に失敗しました。", "", err))
			return
		}
		resp.AccessToken = token
	}

	logger.Info("User created successfully", slog.String("user_id", user.UserID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}

// GetMe は GET /me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "GetMe")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

// UpdateSettings は PATCH /me/settings
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "UpdateSettings")
	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.UpdateSettingsRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	stats, err := h.users.UpdateDailyGoal(r.Context(), userID, *req.DailyGoalMinutes)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}
