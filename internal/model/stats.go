// internal/model/stats.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserStats はユーザーごとの集計値
// Level / LevelName / NextLevelXP は TotalXP から導出される値で、単独で更新してはいけない。
type UserStats struct {
	UserID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"user_id"`
	TotalXP            int         `gorm:"not null;default:0" json:"total_xp"`
	Level              int         `gorm:"not null;default:1" json:"level"`
	LevelName          string      `gorm:"not null" json:"level_name"`
	NextLevelXP        int         `gorm:"not null" json:"next_level_xp"`
	BooksCompleted     int         `gorm:"not null;default:0" json:"books_completed"`
	TotalMinutesRead   int         `gorm:"not null;default:0" json:"total_minutes_read"`
	HighlightsCreated  int         `gorm:"not null;default:0" json:"highlights_created"`
	FlashcardsReviewed int         `gorm:"not null;default:0" json:"flashcards_reviewed"`
	DailyGoalMinutes   int         `gorm:"not null" json:"daily_goal_minutes"`
	JoinedAt           time.Time   `gorm:"not null" json:"joined_at"`
	LastActiveAt       *time.Time  `json:"last_active_at,omitempty"`
	UpdatedAt          time.Time   `json:"-"`
	Badges             []BadgeType `gorm:"-" json:"badges"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
