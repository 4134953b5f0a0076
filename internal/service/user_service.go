//go:generate mockery --name UserService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"strings"

	"kaiz1_core/internal/config"
	"kaiz1_core/internal/gamification"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, name string) (*model.User, *model.UserStats, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateDailyGoal(ctx context.Context, userID uuid.UUID, minutes int) (*model.UserStats, error)
}

type userService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
	cfg       *config.Config
	clock     Clock
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository, statsRepo repository.StatsRepository, cfg *config.Config, clock Clock) UserService {
	return &userService{db: db, userRepo: userRepo, statsRepo: statsRepo, cfg: cfg, clock: clock}
}

// CreateUser はユーザーと初期状態の集計値を作成します。
func (s *userService) CreateUser(ctx context.Context, name string) (*model.User, *model.UserStats, error) {
	logger := middleware.GetLogger(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, model.NewAppError("VALIDATION_ERROR", "名前は必須項目です。", "name", model.ErrInvalidInput)
	}

	now := s.clock.now()
	user := &model.User{UserID: uuid.New(), Name: name}
	stats := &model.UserStats{
		UserID:           user.UserID,
		DailyGoalMinutes: s.cfg.App.DefaultDailyGoalMinutes,
		JoinedAt:         now,
		Badges:           []model.BadgeType{},
	}
	gamification.ApplyLevel(stats)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}
		return s.statsRepo.Create(ctx, tx, stats)
	})
	if err != nil {
		logger.Error("Failed to create user", "error", err)
		return nil, nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
	}

	logger.Info("User created", "user_id", user.UserID)
	return user, stats, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの取得に失敗しました。", "", err)
	}
	return user, nil
}

// UpdateDailyGoal は1日の目標時間(分)を変更します。1〜1440 の範囲のみ受け付ける。
func (s *userService) UpdateDailyGoal(ctx context.Context, userID uuid.UUID, minutes int) (*model.UserStats, error) {
	if minutes < 1 || minutes > 1440 {
		return nil, model.NewAppError("VALIDATION_ERROR", "1日の目標時間(分)は1以上1440以下で入力してください。", "daily_goal_minutes", model.ErrInvalidInput)
	}

	var updated *model.UserStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats, err := s.statsRepo.FindForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "設定の更新に失敗しました。", "", err)
		}
		stats.DailyGoalMinutes = minutes
		if err := s.statsRepo.Update(ctx, tx, stats); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "設定の更新に失敗しました。", "", err)
		}
		updated = stats
		return nil
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Info("Daily goal updated", "user_id", userID, "minutes", minutes)
	return updated, nil
}
