package repository

import (
	"context"
	"fmt"
	"time"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	// CreateOnce は同じ (user, kind, date) の通知があれば created=false を返す
	CreateOnce(ctx context.Context, db *gorm.DB, n *model.Notification) (created bool, err error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, userID, notificationID uuid.UUID, at time.Time) error
}

type gormNotificationRepository struct{}

func NewGormNotificationRepository() NotificationRepository {
	return &gormNotificationRepository{}
}

func (r *gormNotificationRepository) CreateOnce(ctx context.Context, db *gorm.DB, n *model.Notification) (bool, error) {
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		middleware.GetLogger(ctx).Error("Error creating notification", "error", err, "user_id", n.UserID.String(), "kind", n.Kind)
		return false, fmt.Errorf("gormNotificationRepository.CreateOnce: %w", err)
	}
	return true, nil
}

func (r *gormNotificationRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	var ns []model.Notification
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if err := q.Order("created_at DESC").Find(&ns).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing notifications", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("gormNotificationRepository.ListByUser: %w", err)
	}
	return ns, nil
}

// MarkRead は既読日時を設定します。既に既読でも成功扱い。
func (r *gormNotificationRepository) MarkRead(ctx context.Context, db *gorm.DB, userID, notificationID uuid.UUID, at time.Time) error {
	var n model.Notification
	result := db.WithContext(ctx).Where("user_id = ? AND notification_id = ?", userID, notificationID).Limit(1).Find(&n)
	if result.Error != nil {
		return fmt.Errorf("gormNotificationRepository.MarkRead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	if n.ReadAt != nil {
		return nil
	}
	err := db.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("read_at", at.UTC()).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error marking notification read", "error", err, "notification_id", notificationID.String())
		return fmt.Errorf("gormNotificationRepository.MarkRead: %w", err)
	}
	return nil
}
