//go:build integration

// postgres_integration_test.go は PostgreSQL コンテナ上で行ロックと一意制約を確認します。
//
//	go test -tags integration ./internal/service/...
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"kaiz1_core/internal/config"
	"kaiz1_core/internal/gamification"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// PostgresSuite はコンテナを1つ起動し、全テストで共有する
type PostgresSuite struct {
	suite.Suite

	pool     *dockertest.Pool
	resource *dockertest.Resource
	db       *gorm.DB
	env      *testEnv
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping docker based test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

// SetupSuite は postgres コンテナを起動してマイグレーションする。
// コンテナへ接続するホスト名は TEST_DB_HOST で変更できる (devcontainer なら host.docker.internal)。
func (s *PostgresSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	pool, err := dockertest.NewPool("")
	s.Require().NoError(err, "Could not construct pool")
	pool.MaxWait = 120 * time.Second
	s.pool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=user",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=kaiz1",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	s.Require().NoError(err, "Could not start PostgreSQL resource")
	s.resource = resource
	_ = resource.Expire(300)

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		host = "localhost"
	}
	dsn := fmt.Sprintf("postgres://user:secret@%s:%s/kaiz1?sslmode=disable", host, resource.GetPort("5432/tcp"))

	err = pool.Retry(func() error {
		var errRetry error
		s.db, errRetry = repository.NewDB(config.DatabaseConfig{Driver: "postgres", URL: dsn, AutoMigrate: true}, logger)
		if errRetry != nil {
			logger.Warn("Retry: DB connection attempt failed.", slog.Any("error", errRetry))
		}
		return errRetry
	})
	s.Require().NoError(err, "Could not connect to PostgreSQL container after retries")
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if s.resource != nil {
		if err := s.pool.Purge(s.resource); err != nil {
			s.T().Logf("Could not purge PostgreSQL resource: %s", err)
		}
	}
}

// SetupTest はテストごとに時計を初期値に戻したサービス一式を作る
func (s *PostgresSuite) SetupTest() {
	s.env = newTestEnvWithDB(s.db)
}

func (s *PostgresSuite) TestCompleteBook_ConcurrentRequestsAreSerialized() {
	ctx := context.Background()
	userID := s.env.createUser(s.T())
	book := s.env.createBook(s.T(), "Flow "+uuid.NewString(), 10)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.env.books.CompleteBook(ctx, userID, book.BookID, fmt.Sprintf("pg-%s-%d", userID, i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	stats, err := s.env.progress.GetStats(ctx, userID)
	s.Require().NoError(err)
	s.Equal(n, stats.BooksCompleted)
	s.Equal(n*gamification.XPBookCompleted, stats.TotalXP)
	s.Equal([]model.BadgeType{model.BadgeFirstBook}, stats.Badges)

	streak, err := s.env.progress.GetStreak(ctx, userID)
	s.Require().NoError(err)
	s.Equal(1, streak.Record.CurrentStreak)
	s.Require().Len(streak.Record.History, 1)
	s.Equal(n*10, streak.Record.History[0].MinutesRead)
}

func (s *PostgresSuite) TestCompleteBook_DuplicateIdempotencyKey() {
	ctx := context.Background()
	userID := s.env.createUser(s.T())
	book := s.env.createBook(s.T(), "Essentialism "+uuid.NewString(), 12)

	_, err := s.env.books.CompleteBook(ctx, userID, book.BookID, "same-key")
	s.Require().NoError(err)
	_, err = s.env.books.CompleteBook(ctx, userID, book.BookID, "same-key")
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrConflict)

	stats, err := s.env.progress.GetStats(ctx, userID)
	s.Require().NoError(err)
	s.Equal(1, stats.BooksCompleted)
}

func (s *PostgresSuite) TestHighlightReviewAndReminders() {
	ctx := context.Background()
	userID := s.env.createUser(s.T())
	book := s.env.createBook(s.T(), "Mindset "+uuid.NewString(), 15)

	created, err := s.env.highlights.CreateHighlight(ctx, userID, book.BookID, "Effort is the path to mastery.", "")
	s.Require().NoError(err)

	res, err := s.env.flashcards.ReviewFlashcard(ctx, userID, created.Flashcard.FlashcardID, true)
	s.Require().NoError(err)
	s.Equal(1, res.Flashcard.Interval)

	s.env.advanceDays(1)
	sent, err := s.env.notifications.SendReminders(ctx)
	s.Require().NoError(err)
	s.GreaterOrEqual(sent, 1)

	again, err := s.env.notifications.SendReminders(ctx)
	s.Require().NoError(err)
	s.Equal(0, again)
}
