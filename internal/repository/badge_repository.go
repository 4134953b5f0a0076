//go:generate mockery --name BadgeRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeRepository interface {
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.Badge, error)
	// Create は既に同じ種類を所持している場合 created=false を返し、エラーにはしない。
	Create(ctx context.Context, tx *gorm.DB, badge *model.Badge) (created bool, err error)
}

type gormBadgeRepository struct{}

func NewGormBadgeRepository() BadgeRepository {
	return &gormBadgeRepository{}
}

func (r *gormBadgeRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.Badge, error) {
	var badges []model.Badge
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("unlocked_at ASC, type ASC").Find(&badges).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing badges", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("gormBadgeRepository.ListByUser: %w", err)
	}
	return badges, nil
}

func (r *gormBadgeRepository) Create(ctx context.Context, tx *gorm.DB, badge *model.Badge) (bool, error) {
	logger := middleware.GetLogger(ctx)
	// 一意制約違反でトランザクションが中断されないようにセーブポイントを使う (Postgres)
	err := tx.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(badge).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			logger.Debug("Badge already unlocked", "user_id", badge.UserID.String(), "type", badge.Type)
			return false, nil
		}
		logger.Error("Error creating badge", "error", err, "user_id", badge.UserID.String(), "type", badge.Type)
		return false, fmt.Errorf("gormBadgeRepository.Create: %w", err)
	}
	return true, nil
}
