package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"kaiz1_core/internal/config"
	"kaiz1_core/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// AllModels はマイグレーション対象のモデル
var AllModels = []interface{}{
	&model.User{},
	&model.UserStats{},
	&model.StreakRecord{},
	&model.Badge{},
	&model.Book{},
	&model.SavedBook{},
	&model.IdempotencyKey{},
	&model.Highlight{},
	&model.Flashcard{},
	&model.ContentItem{},
	&model.Notification{},
}

// NewDB は設定に従って GORM の接続を作成します。
// driver が sqlite の場合は接続を1本に制限する (インメモリDBをテストで使うため)。
func NewDB(cfg config.DatabaseConfig, appLogger *slog.Logger) (*gorm.DB, error) {
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	case "postgres", "":
		dialector = postgres.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         slogGormLogger.LogMode(gormLogLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err), slog.String("driver", cfg.Driver))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	appLogger.Info("Database connection established with GORM", slog.String("driver", cfg.Driver))

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			appLogger.Error("Auto migration failed", slog.Any("error", err))
			sqlDB.Close()
			return nil, err
		}
		appLogger.Info("Database schema migrated")
	}

	return db, nil
}

// Migrate は全テーブルを AutoMigrate します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels...); err != nil {
		return fmt.Errorf("repository.Migrate: %w", err)
	}
	return nil
}

// isDuplicateKey は一意制約違反かどうかを判定します。
// TranslateError で変換されたものと、pgx の生エラー (23505) の両方を見る。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
