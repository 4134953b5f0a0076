package repository

import (
	"context"
	"fmt"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepository interface {
	ListAll(ctx context.Context, db *gorm.DB) ([]model.ContentItem, error)
	// UpsertByText は本文が一致するコンテンツのタグと重みを更新し、無ければ作成する
	UpsertByText(ctx context.Context, db *gorm.DB, item *model.ContentItem) error
}

type gormContentRepository struct{}

func NewGormContentRepository() ContentRepository {
	return &gormContentRepository{}
}

func (r *gormContentRepository) ListAll(ctx context.Context, db *gorm.DB) ([]model.ContentItem, error) {
	var items []model.ContentItem
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing content items", "error", err)
		return nil, fmt.Errorf("gormContentRepository.ListAll: %w", err)
	}
	return items, nil
}

func (r *gormContentRepository) UpsertByText(ctx context.Context, db *gorm.DB, item *model.ContentItem) error {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "text"}},
		DoUpdates: clause.AssignmentColumns([]string{"dimension_tag", "intervention_weight", "author", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error upserting content item", "error", err, "dimension_tag", item.DimensionTag)
		return fmt.Errorf("gormContentRepository.UpsertByText: %w", err)
	}
	return nil
}
