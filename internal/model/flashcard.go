// internal/model/flashcard.go
package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	InitialEaseFactor = 2.5
)

// Flashcard はハイライトから生成される復習カード
// EaseFactor は常に [MinEaseFactor, MaxEaseFactor] に収まる。
type Flashcard struct {
	FlashcardID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"flashcard_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_flashcard_user_due" json:"-"`
	HighlightID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"highlight_id"`
	BookID         uuid.UUID  `gorm:"type:uuid;not null" json:"book_id"`
	Question       string     `gorm:"not null" json:"question"`
	Answer         string     `gorm:"not null" json:"answer"`
	NextReviewDate time.Time  `gorm:"not null;index:idx_flashcard_user_due" json:"next_review_date"`
	ReviewCount    int        `gorm:"not null;default:0" json:"review_count"`
	CorrectCount   int        `gorm:"not null;default:0" json:"correct_count"`
	IncorrectCount int        `gorm:"not null;default:0" json:"incorrect_count"`
	EaseFactor     float64    `gorm:"not null" json:"ease_factor"`
	Interval       int        `gorm:"not null;default:0" json:"interval"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// ReviewFlashcardRequest は復習結果送信リクエストのDTO
type ReviewFlashcardRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
}

// ReviewResult は復習後のカードと集計結果
type ReviewResult struct {
	Flashcard *Flashcard      `json:"flashcard"`
	Result    *ActivityResult `json:"result"`
}

// DueFlashcardsResponse は復習対象のカード (最大 review_limit 件) と総数
type DueFlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
	TotalDue   int64       `json:"total_due"`
}
