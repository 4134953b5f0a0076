package repository

import (
	"context"
	"errors"
	"fmt"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HighlightRepository interface {
	Create(ctx context.Context, tx *gorm.DB, h *model.Highlight) error
	FindByID(ctx context.Context, db *gorm.DB, userID, highlightID uuid.UUID) (*model.Highlight, error)
	// List は bookID が uuid.Nil なら全書籍分を返す
	List(ctx context.Context, db *gorm.DB, userID, bookID uuid.UUID) ([]model.Highlight, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, highlightID uuid.UUID) error
}

type gormHighlightRepository struct{}

func NewGormHighlightRepository() HighlightRepository {
	return &gormHighlightRepository{}
}

func (r *gormHighlightRepository) Create(ctx context.Context, tx *gorm.DB, h *model.Highlight) error {
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating highlight", "error", err, "user_id", h.UserID.String(), "book_id", h.BookID.String())
		return fmt.Errorf("gormHighlightRepository.Create: %w", err)
	}
	return nil
}

func (r *gormHighlightRepository) FindByID(ctx context.Context, db *gorm.DB, userID, highlightID uuid.UUID) (*model.Highlight, error) {
	var h model.Highlight
	err := db.WithContext(ctx).Where("user_id = ? AND highlight_id = ?", userID, highlightID).First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding highlight", "error", err, "highlight_id", highlightID.String())
		return nil, fmt.Errorf("gormHighlightRepository.FindByID: %w", err)
	}
	return &h, nil
}

func (r *gormHighlightRepository) List(ctx context.Context, db *gorm.DB, userID, bookID uuid.UUID) ([]model.Highlight, error) {
	var hs []model.Highlight
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if bookID != uuid.Nil {
		q = q.Where("book_id = ?", bookID)
	}
	if err := q.Order("created_at DESC").Find(&hs).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing highlights", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("gormHighlightRepository.List: %w", err)
	}
	return hs, nil
}

func (r *gormHighlightRepository) Delete(ctx context.Context, tx *gorm.DB, userID, highlightID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("user_id = ? AND highlight_id = ?", userID, highlightID).Delete(&model.Highlight{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting highlight", "error", result.Error, "highlight_id", highlightID.String())
		return fmt.Errorf("gormHighlightRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
