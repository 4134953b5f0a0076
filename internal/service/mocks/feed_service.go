package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// FeedService は service.FeedService のモック
type FeedService struct {
	mock.Mock
}

func (m *FeedService) GetFeed(ctx context.Context, userID uuid.UUID, weak []model.DimensionTag) (*model.FeedResponse, error) {
	args := m.Called(ctx, userID, weak)
	var resp *model.FeedResponse
	if v := args.Get(0); v != nil {
		resp = v.(*model.FeedResponse)
	}
	return resp, args.Error(1)
}

func (m *FeedService) NextItem(ctx context.Context, userID uuid.UUID, weak []model.DimensionTag) (*model.FeedItemResponse, error) {
	args := m.Called(ctx, userID, weak)
	var resp *model.FeedItemResponse
	if v := args.Get(0); v != nil {
		resp = v.(*model.FeedItemResponse)
	}
	return resp, args.Error(1)
}
