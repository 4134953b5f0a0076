// internal/model/streak.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StreakDay は1日分の活動記録 (Date は UTC の YYYY-MM-DD)
type StreakDay struct {
	Date           string `json:"date"`
	BooksCompleted int    `json:"books_completed"`
	MinutesRead    int    `json:"minutes_read"`
}

// StreakRecord はユーザーごとに1件だけ存在する連続記録
type StreakRecord struct {
	UserID         uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"user_id"`
	CurrentStreak  int                            `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak  int                            `gorm:"not null;default:0" json:"longest_streak"`
	LastActiveDate string                         `gorm:"type:varchar(10);not null;index" json:"last_active_date"`
	StreakFreezes  int                            `gorm:"not null;default:0" json:"streak_freezes"`
	History        datatypes.JSONSlice[StreakDay] `json:"streak_history"`
	CreatedAt      time.Time                      `json:"-"`
	UpdatedAt      time.Time                      `json:"-"`
}

func (StreakRecord) TableName() string {
	return "streak_records"
}

// StreakState は LastActiveDate と今日の日付から導出される状態 (保存はしない)
type StreakState string

const (
	StreakUninitialized StreakState = "uninitialized"
	StreakActiveToday   StreakState = "active_today"
	StreakAtRisk        StreakState = "at_risk"
	StreakBroken        StreakState = "broken"
)

// StreakResponse は連続記録と導出状態を返すDTO
type StreakResponse struct {
	Record *StreakRecord `json:"record"`
	State  StreakState   `json:"state"`
}
