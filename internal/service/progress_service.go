//go:generate mockery --name ProgressService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"kaiz1_core/internal/gamification"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressService は集計値・連続記録・バッジの参照系
type ProgressService interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error)
	GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakResponse, error)
	ListBadges(ctx context.Context, userID uuid.UUID) ([]model.Badge, error)
}

type progressService struct {
	db        *gorm.DB
	statsRepo repository.StatsRepository
	badgeRepo repository.BadgeRepository
	clock     Clock
}

func NewProgressService(db *gorm.DB, statsRepo repository.StatsRepository, badgeRepo repository.BadgeRepository, clock Clock) ProgressService {
	return &progressService{db: db, statsRepo: statsRepo, badgeRepo: badgeRepo, clock: clock}
}

func (s *progressService) GetStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	stats, err := s.findStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.ListBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[model.BadgeType]bool, len(badges))
	for _, b := range badges {
		owned[b.Type] = true
	}
	stats.Badges = ownedList(owned)
	return stats, nil
}

// GetStreak は記録と導出した状態を返す。記録が無いユーザーは uninitialized。
func (s *progressService) GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakResponse, error) {
	if _, err := s.findStats(ctx, userID); err != nil {
		return nil, err
	}

	rec, err := s.statsRepo.FindStreak(ctx, s.db, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			middleware.GetLogger(ctx).Error("Failed to load streak", "user_id", userID, "error", err)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "連続記録の取得に失敗しました。", "", err)
		}
		return &model.StreakResponse{
			Record: &model.StreakRecord{UserID: userID, History: []model.StreakDay{}},
			State:  model.StreakUninitialized,
		}, nil
	}
	return &model.StreakResponse{Record: rec, State: gamification.ClassifyStreak(rec, s.clock.now())}, nil
}

func (s *progressService) ListBadges(ctx context.Context, userID uuid.UUID) ([]model.Badge, error) {
	badges, err := s.badgeRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list badges", "user_id", userID, "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "バッジの取得に失敗しました。", "", err)
	}
	return badges, nil
}

func (s *progressService) findStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	stats, err := s.statsRepo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Failed to load stats", "user_id", userID, "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "集計値の取得に失敗しました。", "", err)
	}
	return stats, nil
}
