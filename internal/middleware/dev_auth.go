// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"net/http"

	"kaiz1_core/internal/model"
	"kaiz1_core/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware は開発時用ミドルウェアです。
// X-User-ID ヘッダーからUUIDを抽出し、コンテキストに設定します。
// ユーザーの存在チェックは行いません。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			logger.Warn("[DEV AUTH] X-User-ID header missing")
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID ヘッダーが必要です。", "", model.ErrForbidden))
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Invalid X-User-ID format", "value", userIDStr)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID の形式が正しくありません。", "", model.ErrForbidden))
			return
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		AddLogAttrs(ctx, "user_id", userID.String(), "dev_auth", true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
