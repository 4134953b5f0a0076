// internal/model/highlight.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Highlight は本の一節のハイライト。作成時にフラッシュカードが1枚自動生成される。
type Highlight struct {
	HighlightID uuid.UUID `gorm:"type:uuid;primaryKey" json:"highlight_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	BookID      uuid.UUID `gorm:"type:uuid;not null;index" json:"book_id"`
	Text        string    `gorm:"not null" json:"text"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Highlight) TableName() string {
	return "highlights"
}

// CreateHighlightRequest はハイライト作成リクエストDTO
type CreateHighlightRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
	Text   string `json:"text" validate:"required,min=1,max=2000"`
	Note   string `json:"note" validate:"max=2000"`
}

// HighlightResponse は作成したハイライトと自動生成されたカード
type HighlightResponse struct {
	Highlight *Highlight      `json:"highlight"`
	Flashcard *Flashcard      `json:"flashcard"`
	Result    *ActivityResult `json:"result"`
}
