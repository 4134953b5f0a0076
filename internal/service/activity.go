package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kaiz1_core/internal/gamification"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// progressEngine は XP・連続記録・バッジの更新を1トランザクション内で行う。
// Book / Highlight / Flashcard の各サービスから共有される。
type progressEngine struct {
	statsRepo repository.StatsRepository
	badgeRepo repository.BadgeRepository
}

// activity は1回の操作の作業領域。begin で user_stats をロックして作る。
type activity struct {
	engine *progressEngine
	ctx    context.Context
	tx     *gorm.DB
	now    time.Time
	logger *slog.Logger

	stats        *model.UserStats
	streak       *model.StreakRecord
	streakLoaded bool
	owned        map[model.BadgeType]bool
	events       []model.Event
}

// begin は user_stats を行ロック付きで読み込み、同一ユーザーの更新を直列化する。
func (e *progressEngine) begin(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (*activity, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)
	stats, err := e.statsRepo.FindForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to lock user stats", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザー情報の取得に失敗しました。", "", err)
	}
	return &activity{
		engine: e,
		ctx:    ctx,
		tx:     tx,
		now:    now,
		logger: logger,
		stats:  stats,
	}, nil
}

// awardXP は XP を加算し、レベルが上がった場合はバッジを再評価する。
func (a *activity) awardXP(amount int, reason string) error {
	updated, leveledUp, err := gamification.AddXP(*a.stats, amount)
	if err != nil {
		return model.NewAppError("INVALID_XP_AMOUNT", "獲得XPは正の値である必要があります。", "", err)
	}
	*a.stats = updated
	a.events = append(a.events, model.Event{Type: model.EventXPAwarded, XP: amount, Reason: reason})

	if leveledUp {
		a.logger.Info("User leveled up", "level", updated.Level, "level_name", updated.LevelName)
		a.events = append(a.events, model.Event{Type: model.EventLevelUp, Level: updated.Level, LevelName: updated.LevelName})
		return a.evaluateBadges()
	}
	return nil
}

func (a *activity) loadStreak() error {
	if a.streakLoaded {
		return nil
	}
	rec, err := a.engine.statsRepo.FindStreak(a.ctx, a.tx, a.stats.UserID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Failed to load streak", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "連続記録の取得に失敗しました。", "", err)
	}
	a.streak = rec
	a.streakLoaded = true
	return nil
}

// recordStreak は本日のアクティビティを連続記録に反映する。
// 7日の倍数に達した場合はボーナスXPを付与する。
func (a *activity) recordStreak(minutesRead int) error {
	if err := a.loadStreak(); err != nil {
		return err
	}
	out := gamification.RecordActivity(a.streak, a.stats.UserID, a.now, minutesRead)
	rec := out.Record
	if err := a.engine.statsRepo.SaveStreak(a.ctx, a.tx, &rec); err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "連続記録の更新に失敗しました。", "", err)
	}
	a.streak = &rec
	a.logger.Debug("Streak recorded", "from", out.From, "current_streak", rec.CurrentStreak)

	if out.Milestone {
		a.events = append(a.events, model.Event{
			Type:         model.EventStreakMilestone,
			StreakLength: rec.CurrentStreak,
			XP:           gamification.StreakBonusXP,
		})
		if err := a.awardXP(gamification.StreakBonusXP, "streak_milestone"); err != nil {
			return err
		}
	}
	return nil
}

func (a *activity) loadOwned() error {
	if a.owned != nil {
		return nil
	}
	badges, err := a.engine.badgeRepo.ListByUser(a.ctx, a.tx, a.stats.UserID)
	if err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "バッジの取得に失敗しました。", "", err)
	}
	a.owned = make(map[model.BadgeType]bool, len(badges))
	for _, b := range badges {
		a.owned[b.Type] = true
	}
	return nil
}

// evaluateBadges は現在の集計値でルール表を評価し、未所持のバッジを解除する。
func (a *activity) evaluateBadges() error {
	if err := a.loadStreak(); err != nil {
		return err
	}
	if err := a.loadOwned(); err != nil {
		return err
	}
	unlocked := gamification.EvaluateBadges(gamification.BadgeInput{Stats: *a.stats, Streak: a.streak}, a.owned)
	for _, t := range unlocked {
		info := model.BadgeCatalog[t]
		badge := &model.Badge{
			BadgeID:     uuid.New(),
			UserID:      a.stats.UserID,
			Type:        t,
			Name:        info.Name,
			Description: info.Description,
			UnlockedAt:  a.now,
		}
		created, err := a.engine.badgeRepo.Create(a.ctx, a.tx, badge)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "バッジの付与に失敗しました。", "", err)
		}
		a.owned[t] = true
		if !created {
			continue
		}
		a.logger.Info("Badge unlocked", "badge", t)
		a.events = append(a.events, model.Event{Type: model.EventBadgeUnlocked, Badge: badge})
	}
	return nil
}

// commit は集計値を保存し、操作の結果を返す。
func (a *activity) commit() (*model.ActivityResult, error) {
	now := a.now
	a.stats.LastActiveAt = &now
	if err := a.engine.statsRepo.Update(a.ctx, a.tx, a.stats); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "集計値の更新に失敗しました。", "", err)
	}
	if err := a.loadOwned(); err != nil {
		return nil, err
	}
	a.stats.Badges = ownedList(a.owned)

	events := a.events
	if events == nil {
		events = []model.Event{}
	}
	return &model.ActivityResult{Stats: a.stats, Streak: a.streak, Events: events}, nil
}

func ownedList(owned map[model.BadgeType]bool) []model.BadgeType {
	list := make([]model.BadgeType, 0, len(owned))
	for _, t := range model.BadgeTypes {
		if owned[t] {
			list = append(list, t)
		}
	}
	return list
}
