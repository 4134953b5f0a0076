package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/webutil"

	"github.com/google/uuid"
)

// requestLogger はリクエストスコープのロガーにハンドラ名を付けて返す
func requestLogger(r *http.Request, handler string) *slog.Logger {
	return middleware.GetLogger(r.Context()).With(slog.String("handler", handler))
}

// currentUserID は認証ミドルウェアが設定したユーザーIDを返す。
// 取得できない場合はエラーレスポンスを書き込み false を返す。
func currentUserID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return userID, true
}

// decodeAndValidate はボディのデコードと validate タグの検証をまとめて行う
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := webutil.DecodeJSONBody(r, dst); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return false
	}
	if err := webutil.ValidateStruct(dst); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return false
	}
	return true
}

// parseWeakDimensions は ?weak=health,career を領域タグの一覧にする
func parseWeakDimensions(r *http.Request) []model.DimensionTag {
	var tags []model.DimensionTag
	for _, raw := range r.URL.Query()["weak"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				tags = append(tags, model.DimensionTag(part))
			}
		}
	}
	return tags
}
