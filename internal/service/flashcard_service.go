//go:generate mockery --name FlashcardService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"kaiz1_core/internal/config"
	"kaiz1_core/internal/gamification"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"
	"kaiz1_core/internal/srs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FlashcardService interface {
	ListDueFlashcards(ctx context.Context, userID uuid.UUID) ([]model.Flashcard, error)
	CountDueFlashcards(ctx context.Context, userID uuid.UUID) (int64, error)
	ReviewFlashcard(ctx context.Context, userID, cardID uuid.UUID, correct bool) (*model.ReviewResult, error)
}

type flashcardService struct {
	db            *gorm.DB
	flashcardRepo repository.FlashcardRepository
	engine        *progressEngine
	cfg           *config.Config
	clock         Clock
}

func NewFlashcardService(
	db *gorm.DB,
	flashcardRepo repository.FlashcardRepository,
	statsRepo repository.StatsRepository,
	badgeRepo repository.BadgeRepository,
	cfg *config.Config,
	clock Clock,
) FlashcardService {
	return &flashcardService{
		db:            db,
		flashcardRepo: flashcardRepo,
		engine:        &progressEngine{statsRepo: statsRepo, badgeRepo: badgeRepo},
		cfg:           cfg,
		clock:         clock,
	}
}

func (s *flashcardService) ListDueFlashcards(ctx context.Context, userID uuid.UUID) ([]model.Flashcard, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	cards, err := s.flashcardRepo.FindDue(ctx, s.db, userID, s.clock.now(), s.cfg.App.ReviewLimit)
	if err != nil {
		logger.Error("Failed to find due flashcards from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習カードの取得に失敗しました。", "", err)
	}
	logger.Info("Successfully retrieved due flashcards", "count", len(cards))
	return cards, nil
}

func (s *flashcardService) CountDueFlashcards(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.flashcardRepo.CountDue(ctx, s.db, userID, s.clock.now())
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to count due flashcards", "user_id", userID, "error", err)
		return 0, model.NewAppError("INTERNAL_SERVER_ERROR", "復習カード数の取得に失敗しました。", "", err)
	}
	return count, nil
}

// ReviewFlashcard は復習結果をカードに反映し、正解なら XP を付与する。
func (s *flashcardService) ReviewFlashcard(ctx context.Context, userID, cardID uuid.UUID, correct bool) (*model.ReviewResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "flashcard_id", cardID)
	now := s.clock.now()

	var res *model.ReviewResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		act, err := s.engine.begin(ctx, tx, userID, now)
		if err != nil {
			return err
		}

		card, err := s.flashcardRepo.FindByID(ctx, tx, userID, cardID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("FLASHCARD_NOT_FOUND", "フラッシュカードが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Error finding flashcard in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの取得に失敗しました。", "", err)
		}

		reviewed := srs.Review(*card, correct, now)
		if err := s.flashcardRepo.Update(ctx, tx, &reviewed); err != nil {
			logger.Error("Failed to update flashcard", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "フラッシュカードの更新に失敗しました。", "", err)
		}
		logger.Debug("Flashcard rescheduled", "interval", reviewed.Interval, "ease_factor", reviewed.EaseFactor, "next_review_date", reviewed.NextReviewDate)

		act.stats.FlashcardsReviewed++
		if correct {
			if err := act.awardXP(gamification.XPCorrectReview, "flashcard_correct"); err != nil {
				return err
			}
		}
		if err := act.evaluateBadges(); err != nil {
			return err
		}

		result, err := act.commit()
		if err != nil {
			return err
		}
		res = &model.ReviewResult{Flashcard: &reviewed, Result: result}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Flashcard reviewed", "is_correct", correct, "interval", res.Flashcard.Interval)
	return res, nil
}
