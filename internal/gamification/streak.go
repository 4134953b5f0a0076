package gamification

import (
	"time"

	"kaiz1_core/internal/calendar"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
)

const (
	// StreakMilestoneDays の倍数に到達するとボーナスXP
	StreakMilestoneDays = 7
	StreakBonusXP       = 50
)

// ClassifyStreak は記録と現在時刻から状態を判定します。
// 判定に使うのは LastActiveDate と今日/昨日の日付キーの比較だけ。
func ClassifyStreak(rec *model.StreakRecord, now time.Time) model.StreakState {
	if rec == nil {
		return model.StreakUninitialized
	}
	switch rec.LastActiveDate {
	case calendar.DateKey(now):
		return model.StreakActiveToday
	case calendar.YesterdayKey(now):
		return model.StreakAtRisk
	default:
		return model.StreakBroken
	}
}

// StreakOutcome は RecordActivity の結果
type StreakOutcome struct {
	Record model.StreakRecord
	// From は遷移前の状態
	From model.StreakState
	// Milestone は AtRisk からの継続で StreakMilestoneDays の倍数に達したときだけ true
	Milestone bool
}

// RecordActivity は1回の対象アクティビティ (本の読了) を記録した新しい記録を返します。
// rec が nil の場合は新規作成。rec 自体は変更しない。
func RecordActivity(rec *model.StreakRecord, userID uuid.UUID, now time.Time, minutesRead int) StreakOutcome {
	today := calendar.DateKey(now)
	state := ClassifyStreak(rec, now)
	todayEntry := model.StreakDay{Date: today, BooksCompleted: 1, MinutesRead: minutesRead}

	if state == model.StreakUninitialized {
		return StreakOutcome{
			From: state,
			Record: model.StreakRecord{
				UserID:         userID,
				CurrentStreak:  1,
				LongestStreak:  1,
				LastActiveDate: today,
				History:        []model.StreakDay{todayEntry},
			},
		}
	}

	next := *rec
	next.History = append(make([]model.StreakDay, 0, len(rec.History)+1), rec.History...)
	out := StreakOutcome{From: state}

	switch state {
	case model.StreakActiveToday:
		if i := indexOfDay(next.History, today); i >= 0 {
			next.History[i].BooksCompleted++
			next.History[i].MinutesRead += minutesRead
		} else {
			next.History = append(next.History, todayEntry)
		}
	case model.StreakAtRisk:
		next.CurrentStreak++
		next.LongestStreak = max(next.LongestStreak, next.CurrentStreak)
		next.LastActiveDate = today
		next.History = append(next.History, todayEntry)
		out.Milestone = next.CurrentStreak%StreakMilestoneDays == 0
	case model.StreakBroken:
		next.CurrentStreak = 1
		next.LongestStreak = max(next.LongestStreak, 1)
		next.LastActiveDate = today
		next.History = append(next.History, todayEntry)
	}

	out.Record = next
	return out
}

func indexOfDay(days []model.StreakDay, date string) int {
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Date == date {
			return i
		}
	}
	return -1
}
