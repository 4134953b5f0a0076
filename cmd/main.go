// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"kaiz1_core/internal/config"
	"kaiz1_core/internal/feed"
	"kaiz1_core/internal/feedstore"
	"kaiz1_core/internal/handlers"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/repository"
	"kaiz1_core/internal/scheduler"
	"kaiz1_core/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	configDir := os.Getenv("APP_CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}
	if err := config.LoadConfig(configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("version", config.AppVersion))

	// 1. Database
	db, err := repository.NewDB(config.Cfg.Database, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 2. Feed session store (Redis があれば Redis、無ければプロセス内メモリ)
	store, closeStore := newFeedStore(logger)
	defer closeStore()

	// 3. Dependency Injection
	userRepo := repository.NewGormUserRepository()
	statsRepo := repository.NewGormStatsRepository()
	badgeRepo := repository.NewGormBadgeRepository()
	bookRepo := repository.NewGormBookRepository()
	highlightRepo := repository.NewGormHighlightRepository()
	flashcardRepo := repository.NewGormFlashcardRepository()
	contentRepo := repository.NewGormContentRepository()
	notificationRepo := repository.NewGormNotificationRepository()

	cfg := &config.Cfg
	userService := service.NewUserService(db, userRepo, statsRepo, cfg, nil)
	progressService := service.NewProgressService(db, statsRepo, badgeRepo, nil)
	bookService := service.NewBookService(db, bookRepo, statsRepo, badgeRepo, nil)
	highlightService := service.NewHighlightService(db, highlightRepo, flashcardRepo, bookRepo, statsRepo, badgeRepo, nil)
	flashcardService := service.NewFlashcardService(db, flashcardRepo, statsRepo, badgeRepo, cfg, nil)
	feedService := service.NewFeedService(db, contentRepo, store, feed.NewSampler(rand.NewSource(time.Now().UnixNano())), cfg)
	notificationService := service.NewNotificationService(db, notificationRepo, statsRepo, flashcardRepo, nil)

	// 4. Reminder job
	if config.Cfg.Scheduler.Enabled {
		jobs := scheduler.New(notificationService, config.Cfg.Scheduler.ReminderInterval, logger)
		if err := jobs.Start(); err != nil {
			slog.Error("Error starting reminder scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		defer jobs.Stop()
		slog.Info("Reminder scheduler started", slog.Duration("interval", config.Cfg.Scheduler.ReminderInterval))
	}

	// 5. Auth
	var issuer handlers.TokenIssuer
	var auth func(http.Handler) http.Handler
	if config.Cfg.Auth.Enabled {
		slog.Info("Applying JWT authentication middleware")
		secret, iss := config.Cfg.JWT.SecretKey, config.Cfg.JWT.Issuer
		issuer = func(userID uuid.UUID) (string, error) {
			return middleware.IssueUserToken(userID, secret, iss, config.DefaultAccessTokenTTL, time.Now())
		}
		auth = middleware.JWTAuthMiddleware(secret, iss)
	} else {
		slog.Warn("Authentication disabled: trusting X-User-ID header")
		auth = middleware.DevUserContextMiddleware
	}

	h := handlers.Handlers{
		Users:         handlers.NewUserHandler(userService, issuer),
		Progress:      handlers.NewProgressHandler(progressService),
		Books:         handlers.NewBookHandler(bookService),
		Highlights:    handlers.NewHighlightHandler(highlightService),
		Flashcards:    handlers.NewFlashcardHandler(flashcardService),
		Feeds:         handlers.NewFeedHandler(feedService),
		Notifications: handlers.NewNotificationHandler(notificationService),
	}

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	handlers.RegisterRoutes(r, h, auth)
	r.Get("/health", healthHandler(db))

	// 7. Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は log.level と APP_ENV から slog ロガーを作る。dev では tint を使う。
func newLogger(tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: logLevel, TimeFormat: time.RFC3339}))
	}
	tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel, AddSource: true}))
}

// newFeedStore は redis.addr が設定されていれば Redis に、そうでなければメモリにセッションを置く
func newFeedStore(logger *slog.Logger) (feedstore.Store, func()) {
	ttl := config.Cfg.Redis.FeedTTL
	if config.Cfg.Redis.Addr == "" {
		logger.Info("Using in-memory feed session store")
		return feedstore.NewMemoryStore(ttl), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := feedstore.Dial(ctx, config.Cfg.Redis.Addr, config.Cfg.Redis.Password, config.Cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory feed session store",
			slog.String("addr", config.Cfg.Redis.Addr), slog.Any("error", err))
		return feedstore.NewMemoryStore(ttl), func() {}
	}
	logger.Info("Using Redis feed session store", slog.String("addr", config.Cfg.Redis.Addr))
	return feedstore.NewRedisStore(rdb, ttl), func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Error closing redis client", slog.Any("error", err))
		}
	}
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
