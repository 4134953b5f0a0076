package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// HighlightService は service.HighlightService のモック
type HighlightService struct {
	mock.Mock
}

func (m *HighlightService) CreateHighlight(ctx context.Context, userID, bookID uuid.UUID, text, note string) (*model.HighlightResponse, error) {
	args := m.Called(ctx, userID, bookID, text, note)
	var resp *model.HighlightResponse
	if v := args.Get(0); v != nil {
		resp = v.(*model.HighlightResponse)
	}
	return resp, args.Error(1)
}

func (m *HighlightService) ListHighlights(ctx context.Context, userID, bookID uuid.UUID) ([]model.Highlight, error) {
	args := m.Called(ctx, userID, bookID)
	var list []model.Highlight
	if v := args.Get(0); v != nil {
		list = v.([]model.Highlight)
	}
	return list, args.Error(1)
}

func (m *HighlightService) DeleteHighlight(ctx context.Context, userID, highlightID uuid.UUID) error {
	return m.Called(ctx, userID, highlightID).Error(0)
}
