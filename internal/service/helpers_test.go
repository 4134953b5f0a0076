package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"kaiz1_core/internal/calendar"
	"kaiz1_core/internal/config"
	"kaiz1_core/internal/feed"
	"kaiz1_core/internal/feedstore"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv は実リポジトリ + インメモリ SQLite で組み立てたサービス一式
type testEnv struct {
	db    *gorm.DB
	cfg   *config.Config
	now   time.Time
	store *feedstore.MemoryStore

	users         UserService
	books         BookService
	highlights    HighlightService
	flashcards    FlashcardService
	progress      ProgressService
	feeds         FeedService
	notifications NotificationService

	bookRepo    repository.BookRepository
	statsRepo   repository.StatsRepository
	contentRepo repository.ContentRepository
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			ReviewLimit:             20,
			FeedSize:                20,
			InterventionRatio:       0.4,
			DefaultDailyGoalMinutes: 15,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewDB(config.DatabaseConfig{Driver: "sqlite", URL: dsn, AutoMigrate: true}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return newTestEnvWithDB(db)
}

// newTestEnvWithDB は任意の接続 (SQLite / PostgreSQL) でサービスを組み立てる
func newTestEnvWithDB(db *gorm.DB) *testEnv {
	env := &testEnv{
		db:          db,
		cfg:         testConfig(),
		now:         time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
		store:       feedstore.NewMemoryStore(time.Hour),
		bookRepo:    repository.NewGormBookRepository(),
		statsRepo:   repository.NewGormStatsRepository(),
		contentRepo: repository.NewGormContentRepository(),
	}
	clock := Clock(func() time.Time { return env.now })

	userRepo := repository.NewGormUserRepository()
	badgeRepo := repository.NewGormBadgeRepository()
	highlightRepo := repository.NewGormHighlightRepository()
	flashcardRepo := repository.NewGormFlashcardRepository()
	notificationRepo := repository.NewGormNotificationRepository()

	env.users = NewUserService(db, userRepo, env.statsRepo, env.cfg, clock)
	env.books = NewBookService(db, env.bookRepo, env.statsRepo, badgeRepo, clock)
	env.highlights = NewHighlightService(db, highlightRepo, flashcardRepo, env.bookRepo, env.statsRepo, badgeRepo, clock)
	env.flashcards = NewFlashcardService(db, flashcardRepo, env.statsRepo, badgeRepo, env.cfg, clock)
	env.progress = NewProgressService(db, env.statsRepo, badgeRepo, clock)
	env.feeds = NewFeedService(db, env.contentRepo, env.store, feed.NewSampler(rand.NewSource(1)), env.cfg)
	env.notifications = NewNotificationService(db, notificationRepo, env.statsRepo, flashcardRepo, clock)
	return env
}

func (e *testEnv) advanceDays(days int) {
	e.now = e.now.AddDate(0, 0, days)
}

func (e *testEnv) createUser(t *testing.T) uuid.UUID {
	t.Helper()
	user, _, err := e.users.CreateUser(context.Background(), "reader")
	require.NoError(t, err)
	return user.UserID
}

func (e *testEnv) createBook(t *testing.T, title string, minutes int) *model.Book {
	t.Helper()
	book := &model.Book{BookID: uuid.New(), Title: title, Author: "author", Category: "mindset", ReadTimeMinutes: minutes}
	require.NoError(t, e.bookRepo.UpsertByTitle(context.Background(), e.db, book))
	return book
}

// seedStreak は最終活動日が now から daysAgo 日前の連続記録を作る
func (e *testEnv) seedStreak(t *testing.T, userID uuid.UUID, current, daysAgo int) {
	t.Helper()
	rec := &model.StreakRecord{
		UserID:         userID,
		CurrentStreak:  current,
		LongestStreak:  current,
		LastActiveDate: calendar.DateKey(e.now.AddDate(0, 0, -daysAgo)),
		History:        []model.StreakDay{},
	}
	require.NoError(t, e.statsRepo.SaveStreak(context.Background(), e.db, rec))
}

func eventTypes(events []model.Event) []model.EventType {
	types := make([]model.EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func unlockedBadges(events []model.Event) []model.BadgeType {
	var badges []model.BadgeType
	for _, ev := range events {
		if ev.Type == model.EventBadgeUnlocked {
			badges = append(badges, ev.Badge.Type)
		}
	}
	return badges
}
