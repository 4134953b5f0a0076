//go:generate mockery --name BookService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"strings"

	"kaiz1_core/internal/gamification"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const actionCompleteBook = "complete_book"

type BookService interface {
	ListBooks(ctx context.Context, category string) ([]model.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (*model.Book, error)
	SaveBook(ctx context.Context, userID, bookID uuid.UUID) error
	UnsaveBook(ctx context.Context, userID, bookID uuid.UUID) error
	ListSavedBooks(ctx context.Context, userID uuid.UUID) ([]model.Book, error)
	// CompleteBook は読了を記録する。idempotencyKey が空でなければ同一キーの再送は ErrConflict になる。
	CompleteBook(ctx context.Context, userID, bookID uuid.UUID, idempotencyKey string) (*model.ActivityResult, error)
}

type bookService struct {
	db       *gorm.DB
	bookRepo repository.BookRepository
	engine   *progressEngine
	clock    Clock
}

func NewBookService(db *gorm.DB, bookRepo repository.BookRepository, statsRepo repository.StatsRepository, badgeRepo repository.BadgeRepository, clock Clock) BookService {
	return &bookService{
		db:       db,
		bookRepo: bookRepo,
		engine:   &progressEngine{statsRepo: statsRepo, badgeRepo: badgeRepo},
		clock:    clock,
	}
}

func (s *bookService) ListBooks(ctx context.Context, category string) ([]model.Book, error) {
	logger := middleware.GetLogger(ctx)
	books, err := s.bookRepo.List(ctx, s.db, strings.ToLower(strings.TrimSpace(category)))
	if err != nil {
		logger.Error("Failed to list books", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "書籍一覧の取得に失敗しました。", "", err)
	}
	return books, nil
}

func (s *bookService) GetBook(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, s.db, bookID)
	if err != nil {
		return nil, bookLookupError(err)
	}
	return book, nil
}

func (s *bookService) SaveBook(ctx context.Context, userID, bookID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "book_id", bookID)
	if _, err := s.bookRepo.FindByID(ctx, s.db, bookID); err != nil {
		return bookLookupError(err)
	}
	if err := s.bookRepo.SaveForUser(ctx, s.db, userID, bookID); err != nil {
		logger.Error("Failed to save book", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "書籍の保存に失敗しました。", "", err)
	}
	logger.Info("Book saved")
	return nil
}

func (s *bookService) UnsaveBook(ctx context.Context, userID, bookID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "book_id", bookID)
	if err := s.bookRepo.UnsaveForUser(ctx, s.db, userID, bookID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("SAVED_BOOK_NOT_FOUND", "保存済みの書籍が見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to unsave book", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "書籍の保存解除に失敗しました。", "", err)
	}
	logger.Info("Book unsaved")
	return nil
}

func (s *bookService) ListSavedBooks(ctx context.Context, userID uuid.UUID) ([]model.Book, error) {
	books, err := s.bookRepo.ListSaved(ctx, s.db, userID)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list saved books", "user_id", userID, "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "保存済み書籍の取得に失敗しました。", "", err)
	}
	return books, nil
}

// CompleteBook は 読了数と読書時間の加算 → 100XP → 連続記録 → バッジ評価 を
// 1トランザクションで実行する。途中で失敗した場合は何も反映されない。
func (s *bookService) CompleteBook(ctx context.Context, userID, bookID uuid.UUID, idempotencyKey string) (*model.ActivityResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "book_id", bookID)
	now := s.clock.now()

	var result *model.ActivityResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		act, err := s.engine.begin(ctx, tx, userID, now)
		if err != nil {
			return err
		}

		book, err := s.bookRepo.FindByID(ctx, tx, bookID)
		if err != nil {
			return bookLookupError(err)
		}

		if key := strings.TrimSpace(idempotencyKey); key != "" {
			err := s.bookRepo.CreateIdempotencyKey(ctx, tx, &model.IdempotencyKey{UserID: userID, Key: key, Action: actionCompleteBook})
			if err != nil {
				if errors.Is(err, model.ErrConflict) {
					logger.Warn("Duplicate completion request", "idempotency_key", key)
					return model.NewAppError("DUPLICATE_REQUEST", "このリクエストは既に処理されています。", "", model.ErrConflict)
				}
				return model.NewAppError("INTERNAL_SERVER_ERROR", "読了の記録に失敗しました。", "", err)
			}
		}

		act.stats.BooksCompleted++
		act.stats.TotalMinutesRead += book.ReadTimeMinutes

		if err := act.awardXP(gamification.XPBookCompleted, "book_completed"); err != nil {
			return err
		}
		if err := act.recordStreak(book.ReadTimeMinutes); err != nil {
			return err
		}
		if err := act.evaluateBadges(); err != nil {
			return err
		}

		result, err = act.commit()
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Book completed",
		"books_completed", result.Stats.BooksCompleted,
		"total_xp", result.Stats.TotalXP,
		"current_streak", result.Streak.CurrentStreak,
		"events", len(result.Events))
	return result, nil
}

func bookLookupError(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return model.NewAppError("BOOK_NOT_FOUND", "書籍が見つかりません。", "", model.ErrNotFound)
	}
	return model.NewAppError("INTERNAL_SERVER_ERROR", "書籍の取得に失敗しました。", "", err)
}
