//go:generate mockery --name NotificationService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"

	"kaiz1_core/internal/calendar"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error
	// SendReminders は当日分のリマインダーを作成し、新しく作った件数を返す。
	// 同じ日に何度実行しても重複しない。
	SendReminders(ctx context.Context) (int, error)
}

type notificationService struct {
	db               *gorm.DB
	notificationRepo repository.NotificationRepository
	statsRepo        repository.StatsRepository
	flashcardRepo    repository.FlashcardRepository
	clock            Clock
}

func NewNotificationService(
	db *gorm.DB,
	notificationRepo repository.NotificationRepository,
	statsRepo repository.StatsRepository,
	flashcardRepo repository.FlashcardRepository,
	clock Clock,
) NotificationService {
	return &notificationService{
		db:               db,
		notificationRepo: notificationRepo,
		statsRepo:        statsRepo,
		flashcardRepo:    flashcardRepo,
		clock:            clock,
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	list, err := s.notificationRepo.ListByUser(ctx, s.db, userID, unreadOnly)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list notifications", "user_id", userID, "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "通知の取得に失敗しました。", "", err)
	}
	return list, nil
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, s.db, userID, notificationID, s.clock.now()); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("NOTIFICATION_NOT_FOUND", "通知が見つかりません。", "", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Failed to mark notification read", "user_id", userID, "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "通知の更新に失敗しました。", "", err)
	}
	return nil
}

// SendReminders は次の2種類を作成する。
//   - streak_at_risk: 最終活動日が昨日のユーザー (今日読まないと途切れる)
//   - flashcards_due: 復習期限を過ぎたカードがあるユーザー
func (s *notificationService) SendReminders(ctx context.Context) (int, error) {
	logger := middleware.GetLogger(ctx)
	now := s.clock.now()
	today := calendar.DateKey(now)

	atRisk, err := s.statsRepo.FindStreaksLastActiveOn(ctx, s.db, calendar.YesterdayKey(now))
	if err != nil {
		logger.Error("Failed to find streaks at risk", "error", err)
		return 0, fmt.Errorf("notificationService.SendReminders: %w", err)
	}
	due, err := s.flashcardRepo.CountDueByUser(ctx, s.db, now)
	if err != nil {
		logger.Error("Failed to count due flashcards", "error", err)
		return 0, fmt.Errorf("notificationService.SendReminders: %w", err)
	}

	var pending []model.Notification
	for _, userID := range atRisk {
		pending = append(pending, model.Notification{
			UserID:  userID,
			Kind:    model.NotificationStreakAtRisk,
			Message: "Read today to keep your streak alive.",
		})
	}
	for _, d := range due {
		pending = append(pending, model.Notification{
			UserID:  d.UserID,
			Kind:    model.NotificationFlashcardsDue,
			Message: fmt.Sprintf("You have %d flashcards due for review.", d.Count),
		})
	}

	created := 0
	var errs []error
	for i := range pending {
		n := &pending[i]
		n.NotificationID = uuid.New()
		n.Date = today
		n.CreatedAt = now
		ok, err := s.notificationRepo.CreateOnce(ctx, s.db, n)
		if err != nil {
			logger.Error("Failed to create notification", "user_id", n.UserID, "kind", n.Kind, "error", err)
			errs = append(errs, err)
			continue
		}
		if ok {
			created++
		}
	}

	logger.Info("Reminders sent", "date", today, "candidates", len(pending), "created", created, "failed", len(errs))
	if len(errs) > 0 {
		return created, fmt.Errorf("notificationService.SendReminders: %w", errors.Join(errs...))
	}
	return created, nil
}
