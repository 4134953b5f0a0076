// internal/model/badge.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// BadgeType は解除可能なバッジの種類
type BadgeType string

const (
	BadgeFirstBook    BadgeType = "first_book"
	BadgeHundredBooks BadgeType = "100_books"
	BadgeScholar      BadgeType = "scholar"
	BadgeSevenDay     BadgeType = "7_day_streak"
	BadgeThirtyDay    BadgeType = "30_day_streak"
	BadgeConsistent   BadgeType = "consistent"
	BadgeHundredDay   BadgeType = "100_day_streak"
	BadgeYearStreak   BadgeType = "365_day_streak"
)

// BadgeTypes は表示順に並べた全バッジ
var BadgeTypes = []BadgeType{
	BadgeFirstBook,
	BadgeSevenDay,
	BadgeThirtyDay,
	BadgeConsistent,
	BadgeHundredDay,
	BadgeHundredBooks,
	BadgeScholar,
	BadgeYearStreak,
}

// BadgeInfo はバッジの表示名と説明
type BadgeInfo struct {
	Name        string
	Description string
}

// BadgeCatalog は全バッジの定義。新しい BadgeType を追加したらここにも追加すること。
var BadgeCatalog = map[BadgeType]BadgeInfo{
	BadgeFirstBook:    {Name: "First Steps", Description: "Completed your first book"},
	BadgeHundredBooks: {Name: "Centurion", Description: "Completed 100 books"},
	BadgeScholar:      {Name: "Scholar", Description: "A true lifelong learner"},
	BadgeSevenDay:     {Name: "Week Warrior", Description: "Read 7 days in a row"},
	BadgeThirtyDay:    {Name: "Monthly Master", Description: "Read 30 days in a row"},
	BadgeConsistent:   {Name: "Consistent", Description: "Built a lasting reading habit"},
	BadgeHundredDay:   {Name: "Century Streak", Description: "Read 100 days in a row"},
	BadgeYearStreak:   {Name: "Year of Wisdom", Description: "Read every day for a year"},
}

// Badge はユーザーが解除したバッジ。(user_id, type) は一意。
type Badge struct {
	BadgeID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"badge_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_badge_type" json:"-"`
	Type        BadgeType `gorm:"type:varchar(32);not null;uniqueIndex:uq_user_badge_type" json:"type"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	UnlockedAt  time.Time `gorm:"not null" json:"unlocked_at"`
}

func (Badge) TableName() string {
	return "user_badges"
}
