package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// UserRepository は repository.UserRepository のモック
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	args := m.Called(ctx, db, user)
	return args.Error(0)
}

func (m *UserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, db, userID)
	var user *model.User
	if v := args.Get(0); v != nil {
		user = v.(*model.User)
	}
	return user, args.Error(1)
}
