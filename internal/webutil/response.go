// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kaiz1_core/internal/model"
)

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError

	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{Error: appErr.Detail}
	} else {
		detail := fallbackDetail(err)
		if statusCode >= http.StatusInternalServerError {
			logger.Error("Unhandled error", slog.Any("error", err))
		}
		errResp = model.APIErrorResponse{Error: detail}
	}

	RespondWithJSON(w, statusCode, errResp, logger)
}

// fallbackDetail は AppError でないエラー用のクライアント向けメッセージ
func fallbackDetail(err error) model.ErrorDetail {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.ErrorDetail{Code: "NOT_FOUND", Message: "リソースが見つかりません。"}
	case errors.Is(err, model.ErrInvalidInput):
		return model.ErrorDetail{Code: "INVALID_INPUT", Message: "入力値が正しくありません。"}
	case errors.Is(err, model.ErrConflict):
		return model.ErrorDetail{Code: "CONFLICT", Message: "リソースが競合しています。"}
	case errors.Is(err, model.ErrForbidden):
		return model.ErrorDetail{Code: "FORBIDDEN", Message: "この操作は許可されていません。"}
	default:
		return model.ErrorDetail{Code: "INTERNAL_SERVER_ERROR", Message: "サーバー内部でエラーが発生しました。"}
	}
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		if logger != nil {
			logger.Error("Error marshaling JSON response", slog.Any("error", err))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"レスポンス生成中にエラーが発生しました。"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
