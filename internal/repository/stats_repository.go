//go:generate mockery --name StatsRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository は user_stats と連続記録を扱う
type StatsRepository interface {
	Create(ctx context.Context, db *gorm.DB, stats *model.UserStats) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserStats, error)
	// FindForUpdate は行ロックを取って読み込む。同一ユーザーの更新系操作を直列化するために使う。
	FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.UserStats, error)
	Update(ctx context.Context, tx *gorm.DB, stats *model.UserStats) error

	FindStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.StreakRecord, error)
	SaveStreak(ctx context.Context, tx *gorm.DB, rec *model.StreakRecord) error
	// FindStreaksLastActiveOn は最終活動日が date のユーザーIDを返す
	FindStreaksLastActiveOn(ctx context.Context, db *gorm.DB, date string) ([]uuid.UUID, error)
}

type gormStatsRepository struct{}

func NewGormStatsRepository() StatsRepository {
	return &gormStatsRepository{}
}

func (r *gormStatsRepository) Create(ctx context.Context, db *gorm.DB, stats *model.UserStats) error {
	if err := db.WithContext(ctx).Create(stats).Error; err != nil {
		if isDuplicateKey(err) {
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Error creating user stats", "error", err, "user_id", stats.UserID.String())
		return fmt.Errorf("gormStatsRepository.Create: %w", err)
	}
	return nil
}

func (r *gormStatsRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserStats, error) {
	return r.find(ctx, db.WithContext(ctx), userID, "FindByUserID")
}

func (r *gormStatsRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.UserStats, error) {
	return r.find(ctx, tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, "FindForUpdate")
}

func (r *gormStatsRepository) find(ctx context.Context, q *gorm.DB, userID uuid.UUID, op string) (*model.UserStats, error) {
	var stats model.UserStats
	if err := q.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding user stats", "error", err, "user_id", userID.String(), "op", op)
		return nil, fmt.Errorf("gormStatsRepository.%s: %w", op, err)
	}
	return &stats, nil
}

func (r *gormStatsRepository) Update(ctx context.Context, tx *gorm.DB, stats *model.UserStats) error {
	if err := tx.WithContext(ctx).Save(stats).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error updating user stats", "error", err, "user_id", stats.UserID.String())
		return fmt.Errorf("gormStatsRepository.Update: %w", err)
	}
	return nil
}

func (r *gormStatsRepository) FindStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.StreakRecord, error) {
	var rec model.StreakRecord
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding streak", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("gormStatsRepository.FindStreak: %w", err)
	}
	return &rec, nil
}

// SaveStreak は連続記録を作成または更新します (主キーは user_id)。
func (r *gormStatsRepository) SaveStreak(ctx context.Context, tx *gorm.DB, rec *model.StreakRecord) error {
	if err := tx.WithContext(ctx).Save(rec).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error saving streak", "error", err, "user_id", rec.UserID.String())
		return fmt.Errorf("gormStatsRepository.SaveStreak: %w", err)
	}
	return nil
}

func (r *gormStatsRepository) FindStreaksLastActiveOn(ctx context.Context, db *gorm.DB, date string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&model.StreakRecord{}).
		Where("last_active_date = ? AND current_streak > 0", date).
		Pluck("user_id", &ids).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error finding streaks by last active date", "error", err, "date", date)
		return nil, fmt.Errorf("gormStatsRepository.FindStreaksLastActiveOn: %w", err)
	}
	return ids, nil
}
