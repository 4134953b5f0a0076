// internal/model/book.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Book は要約コンテンツ (Essentia) の1冊
type Book struct {
	BookID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"book_id"`
	Title           string    `gorm:"not null;uniqueIndex" json:"title"`
	Author          string    `gorm:"not null" json:"author"`
	Category        string    `gorm:"index" json:"category"`
	ReadTimeMinutes int       `gorm:"not null;default:0" json:"read_time_minutes"`
	Summary         string    `json:"summary"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// SavedBook はユーザーの保存済み書籍 (user_id, book_id) の組
type SavedBook struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time

	Book *Book `gorm:"foreignKey:BookID;references:BookID"`
}

func (SavedBook) TableName() string {
	return "saved_books"
}

// IdempotencyKey は再送された操作を弾くためのキー
type IdempotencyKey struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key       string    `gorm:"type:varchar(128);primaryKey"`
	Action    string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
