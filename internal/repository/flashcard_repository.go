package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FlashcardRepository interface {
	Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	FindByID(ctx context.Context, db *gorm.DB, userID, cardID uuid.UUID) (*model.Flashcard, error)
	Update(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	// FindDue は now 時点で復習期限を過ぎたカードを期限の古い順に返す
	FindDue(ctx context.Context, db *gorm.DB, userID uuid.UUID, now time.Time, limit int) ([]model.Flashcard, error)
	CountDue(ctx context.Context, db *gorm.DB, userID uuid.UUID, now time.Time) (int64, error)
	CountDueByUser(ctx context.Context, db *gorm.DB, now time.Time) ([]model.DueCount, error)
	DeleteByHighlight(ctx context.Context, tx *gorm.DB, userID, highlightID uuid.UUID) error
}

type gormFlashcardRepository struct{}

func NewGormFlashcardRepository() FlashcardRepository {
	return &gormFlashcardRepository{}
}

func (r *gormFlashcardRepository) Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	if err := tx.WithContext(ctx).Create(card).Error; err != nil {
		if isDuplicateKey(err) {
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Error creating flashcard", "error", err, "highlight_id", card.HighlightID.String())
		return fmt.Errorf("gormFlashcardRepository.Create: %w", err)
	}
	return nil
}

func (r *gormFlashcardRepository) FindByID(ctx context.Context, db *gorm.DB, userID, cardID uuid.UUID) (*model.Flashcard, error) {
	var card model.Flashcard
	err := db.WithContext(ctx).Where("user_id = ? AND flashcard_id = ?", userID, cardID).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding flashcard", "error", err, "flashcard_id", cardID.String())
		return nil, fmt.Errorf("gormFlashcardRepository.FindByID: %w", err)
	}
	return &card, nil
}

func (r *gormFlashcardRepository) Update(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	if err := tx.WithContext(ctx).Save(card).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error updating flashcard", "error", err, "flashcard_id", card.FlashcardID.String())
		return fmt.Errorf("gormFlashcardRepository.Update: %w", err)
	}
	return nil
}

func (r *gormFlashcardRepository) FindDue(ctx context.Context, db *gorm.DB, userID uuid.UUID, now time.Time, limit int) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := db.WithContext(ctx).
		Where("user_id = ? AND next_review_date <= ?", userID, now.UTC()).
		Order("next_review_date ASC, created_at ASC").
		Limit(limit).
		Find(&cards).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error finding due flashcards", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("gormFlashcardRepository.FindDue: %w", err)
	}
	return cards, nil
}

func (r *gormFlashcardRepository) CountDue(ctx context.Context, db *gorm.DB, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Flashcard{}).
		Where("user_id = ? AND next_review_date <= ?", userID, now.UTC()).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting due flashcards", "error", err, "user_id", userID.String())
		return 0, fmt.Errorf("gormFlashcardRepository.CountDue: %w", err)
	}
	return count, nil
}

func (r *gormFlashcardRepository) CountDueByUser(ctx context.Context, db *gorm.DB, now time.Time) ([]model.DueCount, error) {
	var counts []model.DueCount
	err := db.WithContext(ctx).Model(&model.Flashcard{}).
		Select("user_id, COUNT(*) AS count").
		Where("next_review_date <= ?", now.UTC()).
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting due flashcards by user", "error", err)
		return nil, fmt.Errorf("gormFlashcardRepository.CountDueByUser: %w", err)
	}
	return counts, nil
}

func (r *gormFlashcardRepository) DeleteByHighlight(ctx context.Context, tx *gorm.DB, userID, highlightID uuid.UUID) error {
	err := tx.WithContext(ctx).Where("user_id = ? AND highlight_id = ?", userID, highlightID).Delete(&model.Flashcard{}).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error deleting flashcard by highlight", "error", err, "highlight_id", highlightID.String())
		return fmt.Errorf("gormFlashcardRepository.DeleteByHighlight: %w", err)
	}
	return nil
}
