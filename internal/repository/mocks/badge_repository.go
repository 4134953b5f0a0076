package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// BadgeRepository は repository.BadgeRepository のモック
type BadgeRepository struct {
	mock.Mock
}

func (m *BadgeRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.Badge, error) {
	args := m.Called(ctx, db, userID)
	var badges []model.Badge
	if v := args.Get(0); v != nil {
		badges = v.([]model.Badge)
	}
	return badges, args.Error(1)
}

func (m *BadgeRepository) Create(ctx context.Context, tx *gorm.DB, badge *model.Badge) (bool, error) {
	args := m.Called(ctx, tx, badge)
	return args.Bool(0), args.Error(1)
}
