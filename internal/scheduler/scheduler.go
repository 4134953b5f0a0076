// Package scheduler は定期実行するバックグラウンドジョブを管理します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kaiz1_core/internal/middleware"

	"github.com/go-co-op/gocron"
)

// ReminderSender はリマインダー通知を作成する
type ReminderSender interface {
	SendReminders(ctx context.Context) (int, error)
}

// Scheduler は gocron の薄いラッパー
type Scheduler struct {
	cron     *gocron.Scheduler
	sender   ReminderSender
	interval time.Duration
	logger   *slog.Logger
}

func New(sender ReminderSender, interval time.Duration, logger *slog.Logger) *Scheduler {
	cron := gocron.NewScheduler(time.UTC)
	// 前回の実行が終わる前に次の時刻が来ても重ねて実行しない
	cron.SingletonModeAll()
	return &Scheduler{
		cron:     cron,
		sender:   sender,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start はジョブを登録し、非同期に実行を開始する。初回は即時に実行される。
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler: reminder interval must be positive, got %s", s.interval)
	}
	if _, err := s.cron.Every(s.interval).Do(s.sendReminders); err != nil {
		return fmt.Errorf("scheduler: register reminder job: %w", err)
	}
	s.cron.StartAsync()
	s.logger.Info("Scheduler started", "reminder_interval", s.interval.String())
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	ctx = middleware.WithLogger(ctx, s.logger.With("job", "reminders"))

	start := time.Now()
	created, err := s.sender.SendReminders(ctx)
	if err != nil {
		s.logger.Error("Reminder job failed", "error", err, "created", created)
		return
	}
	s.logger.Info("Reminder job finished", "created", created, "duration", time.Since(start).String())
}
