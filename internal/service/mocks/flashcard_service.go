package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// FlashcardService は service.FlashcardService のモック
type FlashcardService struct {
	mock.Mock
}

func (m *FlashcardService) ListDueFlashcards(ctx context.Context, userID uuid.UUID) ([]model.Flashcard, error) {
	args := m.Called(ctx, userID)
	var cards []model.Flashcard
	if v := args.Get(0); v != nil {
		cards = v.([]model.Flashcard)
	}
	return cards, args.Error(1)
}

func (m *FlashcardService) CountDueFlashcards(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FlashcardService) ReviewFlashcard(ctx context.Context, userID, cardID uuid.UUID, correct bool) (*model.ReviewResult, error) {
	args := m.Called(ctx, userID, cardID, correct)
	var res *model.ReviewResult
	if v := args.Get(0); v != nil {
		res = v.(*model.ReviewResult)
	}
	return res, args.Error(1)
}
