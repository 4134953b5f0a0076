package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// StatsRepository は repository.StatsRepository のモック
type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) Create(ctx context.Context, db *gorm.DB, stats *model.UserStats) error {
	args := m.Called(ctx, db, stats)
	return args.Error(0)
}

func (m *StatsRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserStats, error) {
	args := m.Called(ctx, db, userID)
	return statsArg(args), args.Error(1)
}

func (m *StatsRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.UserStats, error) {
	args := m.Called(ctx, tx, userID)
	return statsArg(args), args.Error(1)
}

func (m *StatsRepository) Update(ctx context.Context, tx *gorm.DB, stats *model.UserStats) error {
	args := m.Called(ctx, tx, stats)
	return args.Error(0)
}

func (m *StatsRepository) FindStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.StreakRecord, error) {
	args := m.Called(ctx, db, userID)
	var rec *model.StreakRecord
	if v := args.Get(0); v != nil {
		rec = v.(*model.StreakRecord)
	}
	return rec, args.Error(1)
}

func (m *StatsRepository) SaveStreak(ctx context.Context, tx *gorm.DB, rec *model.StreakRecord) error {
	args := m.Called(ctx, tx, rec)
	return args.Error(0)
}

func (m *StatsRepository) FindStreaksLastActiveOn(ctx context.Context, db *gorm.DB, date string) ([]uuid.UUID, error) {
	args := m.Called(ctx, db, date)
	var ids []uuid.UUID
	if v := args.Get(0); v != nil {
		ids = v.([]uuid.UUID)
	}
	return ids, args.Error(1)
}

func statsArg(args mock.Arguments) *model.UserStats {
	if v := args.Get(0); v != nil {
		return v.(*model.UserStats)
	}
	return nil
}
