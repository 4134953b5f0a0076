package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"kaiz1_core/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// maxBodyBytes はリクエストボディの上限
const maxBodyBytes = 1 << 20

// DecodeJSONBody はリクエストボディをデコードします
// 未知のフィールド・複数のJSON値は ErrInvalidInput として扱う。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errors.Join(model.ErrInvalidInput, err)
	}
	if decoder.More() {
		return model.ErrInvalidInput
	}
	return nil
}

// ValidateStruct は validate タグを検証し、最初のエラーを日本語メッセージの AppError にして返します。
func ValidateStruct(req interface{}) error {
	err := Validator.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}
	firstErr := validationErrors[0]
	return model.NewAppError(
		"VALIDATION_ERROR",
		firstErr.Translate(Trans),
		firstErr.Field(),
		model.ErrInvalidInput,
	)
}

// ParseUUIDParam はパスやクエリの UUID 文字列を解釈します。field はエラー時に返すフィールド名。
func ParseUUIDParam(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_PATH_PARAM", field+"の形式が正しくありません。", field, model.ErrInvalidInput)
	}
	return id, nil
}
