package mocks

import (
	"context"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// BookService は service.BookService のモック
type BookService struct {
	mock.Mock
}

func (m *BookService) ListBooks(ctx context.Context, category string) ([]model.Book, error) {
	args := m.Called(ctx, category)
	var books []model.Book
	if v := args.Get(0); v != nil {
		books = v.([]model.Book)
	}
	return books, args.Error(1)
}

func (m *BookService) GetBook(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
	args := m.Called(ctx, bookID)
	var book *model.Book
	if v := args.Get(0); v != nil {
		book = v.(*model.Book)
	}
	return book, args.Error(1)
}

func (m *BookService) SaveBook(ctx context.Context, userID, bookID uuid.UUID) error {
	return m.Called(ctx, userID, bookID).Error(0)
}

func (m *BookService) UnsaveBook(ctx context.Context, userID, bookID uuid.UUID) error {
	return m.Called(ctx, userID, bookID).Error(0)
}

func (m *BookService) ListSavedBooks(ctx context.Context, userID uuid.UUID) ([]model.Book, error) {
	args := m.Called(ctx, userID)
	var books []model.Book
	if v := args.Get(0); v != nil {
		books = v.([]model.Book)
	}
	return books, args.Error(1)
}

func (m *BookService) CompleteBook(ctx context.Context, userID, bookID uuid.UUID, idempotencyKey string) (*model.ActivityResult, error) {
	args := m.Called(ctx, userID, bookID, idempotencyKey)
	var res *model.ActivityResult
	if v := args.Get(0); v != nil {
		res = v.(*model.ActivityResult)
	}
	return res, args.Error(1)
}
