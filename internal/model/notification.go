// internal/model/notification.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationStreakAtRisk  NotificationKind = "streak_at_risk"
	NotificationFlashcardsDue NotificationKind = "flashcards_due"
)

// Notification はリマインダー通知。(user_id, kind, date) は一意で、同じ日に二重には作られない。
type Notification struct {
	NotificationID uuid.UUID        `gorm:"type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_notification_daily" json:"-"`
	Kind           NotificationKind `gorm:"type:varchar(32);not null;uniqueIndex:uq_notification_daily" json:"kind"`
	Date           string           `gorm:"type:varchar(10);not null;uniqueIndex:uq_notification_daily" json:"date"`
	Message        string           `gorm:"not null" json:"message"`
	ReadAt         *time.Time       `json:"read_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// DueCount はユーザーごとの復習期限切れカード数
type DueCount struct {
	UserID uuid.UUID
	Count  int64
}
