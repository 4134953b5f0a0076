package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ProgressService は service.ProgressService のモック
type ProgressService struct {
	mock.Mock
}

func (m *ProgressService) GetStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	args := m.Called(ctx, userID)
	var stats *model.UserStats
	if v := args.Get(0); v != nil {
		stats = v.(*model.UserStats)
	}
	return stats, args.Error(1)
}

func (m *ProgressService) GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakResponse, error) {
	args := m.Called(ctx, userID)
	var resp *model.StreakResponse
	if v := args.Get(0); v != nil {
		resp = v.(*model.StreakResponse)
	}
	return resp, args.Error(1)
}

func (m *ProgressService) ListBadges(ctx context.Context, userID uuid.UUID) ([]model.Badge, error) {
	args := m.Called(ctx, userID)
	var badges []model.Badge
	if v := args.Get(0); v != nil {
		badges = v.([]model.Badge)
	}
	return badges, args.Error(1)
}
