//go:generate mockery --name FeedService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"kaiz1_core/internal/config"
	"kaiz1_core/internal/feed"
	"kaiz1_core/internal/feedstore"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedService interface {
	// GetFeed は新しいフィードを作り、セッションを先頭からやり直す。
	GetFeed(ctx context.Context, userID uuid.UUID, weak []model.DimensionTag) (*model.FeedResponse, error)
	// NextItem はセッションの次の1件を返す。弱い領域が変わったか末尾に達した場合は作り直す。
	NextItem(ctx context.Context, userID uuid.UUID, weak []model.DimensionTag) (*model.FeedItemResponse, error)
}

type feedService struct {
	db          *gorm.DB
	contentRepo repository.ContentRepository
	store       feedstore.Store
	sampler     *feed.Sampler
	cfg         *config.Config
}

func NewFeedService(db *gorm.DB, contentRepo repository.ContentRepository, store feedstore.Store, sampler *feed.Sampler, cfg *config.Config) FeedService {
	return &feedService{db: db, contentRepo: contentRepo, store: store, sampler: sampler, cfg: cfg}
}

func validateWeak(weak []model.DimensionTag) error {
	for _, d := range weak {
		if d == model.DimensionGeneric || !model.IsValidDimension(d) {
			return model.NewAppError("VALIDATION_ERROR", "弱い領域の指定が不正です: "+string(d), "weak", model.ErrInvalidInput)
		}
	}
	return nil
}

func (s *feedService) GetFeed(ctx context.Context, userID uuid.UUID, weak []model.DimensionTag) (*model.FeedResponse, error) {
	if err := validateWeak(weak); err != nil {
		return nil, err
	}
	session, err := s.regenerate(ctx, userID, weak)
	if err != nil {
		return nil, err
	}
	s.save(ctx, session)
	return &model.FeedResponse{Items: session.Items}, nil
}

func (s *feedService) NextItem(ctx context.Context, userID uuid.UUID, weak []model.DimensionTag) (*model.FeedItemResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)
	if err := validateWeak(weak); err != nil {
		return nil, err
	}

	session, err := s.store.Get(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		// セッションは作り直せるので、読み出しの失敗は再生成で扱う
		logger.Warn("Failed to load feed session, regenerating", "error", err)
		session = nil
	}

	regenerated := false
	if session == nil || session.WeakKey != feed.WeakKey(weak) || session.Cursor >= len(session.Items) {
		session, err = s.regenerate(ctx, userID, weak)
		if err != nil {
			return nil, err
		}
		regenerated = true
	}

	resp := &model.FeedItemResponse{
		Position:    session.Cursor,
		FeedLength:  len(session.Items),
		Regenerated: regenerated,
	}
	if session.Cursor < len(session.Items) {
		item := session.Items[session.Cursor]
		resp.Item = &item
		session.Cursor++
	}
	s.save(ctx, session)
	return resp, nil
}

func (s *feedService) regenerate(ctx context.Context, userID uuid.UUID, weak []model.DimensionTag) (*model.FeedSession, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	pool, err := s.contentRepo.ListAll(ctx, s.db)
	if err != nil {
		logger.Error("Failed to load content pool", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コンテンツの取得に失敗しました。", "", err)
	}
	items, err := s.sampler.BuildFeed(pool, weak, s.cfg.App.InterventionRatio, s.cfg.App.FeedSize)
	if err != nil {
		return nil, model.NewAppError("INVALID_FEED_SETTINGS", "フィードの設定が不正です。", "", err)
	}
	logger.Info("Feed generated", "pool", len(pool), "items", len(items), "weak", feed.WeakKey(weak))
	return &model.FeedSession{UserID: userID, Items: items, Cursor: 0, WeakKey: feed.WeakKey(weak)}, nil
}

func (s *feedService) save(ctx context.Context, session *model.FeedSession) {
	if err := s.store.Save(ctx, session); err != nil {
		middleware.GetLogger(ctx).Warn("Failed to save feed session", "user_id", session.UserID, "error", err)
	}
}
