package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// UserService は service.UserService のモック
type UserService struct {
	mock.Mock
}

func (m *UserService) CreateUser(ctx context.Context, name string) (*model.User, *model.UserStats, error) {
	args := m.Called(ctx, name)
	var user *model.User
	if v := args.Get(0); v != nil {
		user = v.(*model.User)
	}
	var stats *model.UserStats
	if v := args.Get(1); v != nil {
		stats = v.(*model.UserStats)
	}
	return user, stats, args.Error(2)
}

func (m *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	var user *model.User
	if v := args.Get(0); v != nil {
		user = v.(*model.User)
	}
	return user, args.Error(1)
}

func (m *UserService) UpdateDailyGoal(ctx context.Context, userID uuid.UUID, minutes int) (*model.UserStats, error) {
	args := m.Called(ctx, userID, minutes)
	var stats *model.UserStats
	if v := args.Get(0); v != nil {
		stats = v.(*model.UserStats)
	}
	return stats, args.Error(1)
}
