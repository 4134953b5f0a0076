package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// NotificationService は service.NotificationService のモック
type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	var list []model.Notification
	if v := args.Get(0); v != nil {
		list = v.([]model.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationService) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *NotificationService) SendReminders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
