package service

import (
	"context"
	"testing"

	"kaiz1_core/internal/calendar"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightService_CreateHighlight(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := env.createUser(t)
	book := env.createBook(t, "Atomic Habits", 15)

	resp, err := env.highlights.CreateHighlight(ctx, userID, book.BookID, "  Habits compound over time.  ", "ch.1")
	require.NoError(t, err)

	assert.Equal(t, "Habits compound over time.", resp.Highlight.Text)
	assert.Equal(t, "ch.1", resp.Highlight.Note)

	card := resp.Flashcard
	assert.Equal(t, `What key idea did you highlight in "Atomic Habits"?`, card.Question)
	assert.Equal(t, "Habits compound over time.", card.Answer)
	assert.Equal(t, resp.Highlight.HighlightID, card.HighlightID)
	assert.Equal(t, 0, card.Interval)
	assert.Equal(t, model.InitialEaseFactor, card.EaseFactor)
	assert.True(t, card.NextReviewDate.Equal(calendar.StartOfDay(env.now)))

	assert.Equal(t, 1, resp.Result.Stats.HighlightsCreated)
	assert.Equal(t, 10, resp.Result.Stats.TotalXP)
	assert.Equal(t, []model.EventType{model.EventXPAwarded}, eventTypes(resp.Result.Events))

	// 作成したカードは今日から復習対象
	due, err := env.flashcards.ListDueFlashcards(ctx, userID)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, card.FlashcardID, due[0].FlashcardID)
}

func TestHighlightService_CreateHighlight_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := env.createUser(t)
	book := env.createBook(t, "Deep Work", 20)

	tests := []struct {
		name    string
		userID  uuid.UUID
		bookID  uuid.UUID
		text    string
		wantErr error
	}{
		{name: "異常系: 本文が空", userID: userID, bookID: book.BookID, text: "   ", wantErr: model.ErrInvalidInput},
		{name: "異常系: 存在しない書籍", userID: userID, bookID: uuid.New(), text: "idea", wantErr: model.ErrNotFound},
		{name: "異常系: 存在しないユーザー", userID: uuid.New(), bookID: book.BookID, text: "idea", wantErr: model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.highlights.CreateHighlight(ctx, tt.userID, tt.bookID, tt.text, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := env.highlights.ListHighlights(ctx, userID, uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHighlightService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := env.createUser(t)
	a := env.createBook(t, "Book A", 10)
	b := env.createBook(t, "Book B", 10)

	first, err := env.highlights.CreateHighlight(ctx, userID, a.BookID, "idea a", "")
	require.NoError(t, err)
	_, err = env.highlights.CreateHighlight(ctx, userID, b.BookID, "idea b", "")
	require.NoError(t, err)

	all, err := env.highlights.ListHighlights(ctx, userID, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := env.highlights.ListHighlights(ctx, userID, a.BookID)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "idea a", onlyA[0].Text)

	require.NoError(t, env.highlights.DeleteHighlight(ctx, userID, first.Highlight.HighlightID))

	count, err := env.flashcards.CountDueFlashcards(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "ハイライトと一緒にカードも削除される")

	err = env.highlights.DeleteHighlight(ctx, userID, first.Highlight.HighlightID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// 他人のハイライトは削除できない
	other := env.createUser(t)
	err = env.highlights.DeleteHighlight(ctx, other, all[0].HighlightID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
