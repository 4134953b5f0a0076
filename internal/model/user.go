// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User はアプリのユーザー
type User struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
)

// CreateUserRequest はユーザー作成APIのリクエストボディ
type CreateUserRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateSettingsRequest は設定変更APIのリクエストボディ
type UpdateSettingsRequest struct {
	DailyGoalMinutes *int `json:"daily_goal_minutes" validate:"required,min=1,max=1440"`
}

// CreateUserResponse は作成したユーザーと初期の集計値
// AccessToken は認証が有効な場合のみ設定される。
type CreateUserResponse struct {
	User        *User      `json:"user"`
	Stats       *UserStats `json:"stats"`
	AccessToken string     `json:"access_token,omitempty"`
}
