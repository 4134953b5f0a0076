//go:generate mockery --name HighlightService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kaiz1_core/internal/calendar"
	"kaiz1_core/internal/gamification"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HighlightService interface {
	CreateHighlight(ctx context.Context, userID, bookID uuid.UUID, text, note string) (*model.HighlightResponse, error)
	ListHighlights(ctx context.Context, userID, bookID uuid.UUID) ([]model.Highlight, error)
	DeleteHighlight(ctx context.Context, userID, highlightID uuid.UUID) error
}

type highlightService struct {
	db            *gorm.DB
	highlightRepo repository.HighlightRepository
	flashcardRepo repository.FlashcardRepository
	bookRepo      repository.BookRepository
	engine        *progressEngine
	clock         Clock
}

func NewHighlightService(
	db *gorm.DB,
	highlightRepo repository.HighlightRepository,
	flashcardRepo repository.FlashcardRepository,
	bookRepo repository.BookRepository,
	statsRepo repository.StatsRepository,
	badgeRepo repository.BadgeRepository,
	clock Clock,
) HighlightService {
	return &highlightService{
		db:            db,
		highlightRepo: highlightRepo,
		flashcardRepo: flashcardRepo,
		bookRepo:      bookRepo,
		engine:        &progressEngine{statsRepo: statsRepo, badgeRepo: badgeRepo},
		clock:         clock,
	}
}

func flashcardQuestion(title string) string {
	return fmt.Sprintf("What key idea did you highlight in \"%s\"?", title)
}

// CreateHighlight はハイライトと、それを元にしたフラッシュカードを同時に作成する。
// カードは今日から復習対象になる。
func (s *highlightService) CreateHighlight(ctx context.Context, userID, bookID uuid.UUID, text, note string) (*model.HighlightResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "book_id", bookID)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "ハイライトの本文は必須項目です。", "text", model.ErrInvalidInput)
	}
	now := s.clock.now()

	var resp *model.HighlightResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		act, err := s.engine.begin(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		book, err := s.bookRepo.FindByID(ctx, tx, bookID)
		if err != nil {
			return bookLookupError(err)
		}

		highlight := &model.Highlight{
			HighlightID: uuid.New(),
			UserID:      userID,
			BookID:      bookID,
			Text:        text,
			Note:        strings.TrimSpace(note),
			CreatedAt:   now,
		}
		if err := s.highlightRepo.Create(ctx, tx, highlight); err != nil {
			logger.Error("Failed to create highlight", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ハイライトの作成に失敗しました。", "", err)
		}

		card := &model.Flashcard{
			FlashcardID:    uuid.New(),
			UserID:         userID,
			HighlightID:    highlight.HighlightID,
			BookID:         bookID,
			Question:       flashcardQuestion(book.Title),
			Answer:         text,
			NextReviewDate: calendar.StartOfDay(now),
			EaseFactor:     model.InitialEaseFactor,
			Interval:       0,
			CreatedAt:      now,
		}
		if err := s.flashcardRepo.Create(ctx, tx, card); err != nil {
			logger.Error("Failed to create flashcard", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの作成に失敗しました。", "", err)
		}

		act.stats.HighlightsCreated++
		if err := act.awardXP(gamification.XPHighlight, "highlight_created"); err != nil {
			return err
		}
		result, err := act.commit()
		if err != nil {
			return err
		}
		resp = &model.HighlightResponse{Highlight: highlight, Flashcard: card, Result: result}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Highlight created", "highlight_id", resp.Highlight.HighlightID, "flashcard_id", resp.Flashcard.FlashcardID)
	return resp, nil
}

// ListHighlights は bookID が uuid.Nil の場合すべての書籍のハイライトを返す。
func (s *highlightService) ListHighlights(ctx context.Context, userID, bookID uuid.UUID) ([]model.Highlight, error) {
	highlights, err := s.highlightRepo.List(ctx, s.db, userID, bookID)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list highlights", "user_id", userID, "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ハイライトの取得に失敗しました。", "", err)
	}
	return highlights, nil
}

// DeleteHighlight は紐づくフラッシュカードも削除する。
func (s *highlightService) DeleteHighlight(ctx context.Context, userID, highlightID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "highlight_id", highlightID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.flashcardRepo.DeleteByHighlight(ctx, tx, userID, highlightID); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの削除に失敗しました。", "", err)
		}
		if err := s.highlightRepo.Delete(ctx, tx, userID, highlightID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("HIGHLIGHT_NOT_FOUND", "ハイライトが見つかりません。", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ハイライトの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("Failed to delete highlight", "error", err)
		return err
	}
	logger.Info("Highlight deleted")
	return nil
}
