// Package gamification は XP・レベル・連続記録・バッジの計算を行う純粋関数群です。
// DB やクロックには依存せず、呼び出し側から now を受け取る。
package gamification

import (
	"fmt"

	"kaiz1_core/internal/model"
)

// XPPerLevel ごとにレベルが1つ上がる
const XPPerLevel = 1000

// アクティビティごとの獲得XP
const (
	XPBookCompleted = 100
	XPHighlight     = 10
	XPCorrectReview = 5
)

// LevelNames はレベル帯の名前 (5レベルごとに次の名前)
var LevelNames = []string{"Beginner", "Reader", "Scholar", "Expert", "Master", "Sage"}

// LevelInfo は TotalXP から導出される値
type LevelInfo struct {
	Level       int
	Name        string
	NextLevelXP int
}

// LevelFor は totalXP からレベル情報を計算します。
func LevelFor(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	level := totalXP/XPPerLevel + 1
	nameIdx := min(level/5, len(LevelNames)-1)
	return LevelInfo{
		Level:       level,
		Name:        LevelNames[nameIdx],
		NextLevelXP: level * XPPerLevel,
	}
}

// ApplyLevel は stats の導出フィールドを TotalXP から再計算します。
func ApplyLevel(stats *model.UserStats) {
	info := LevelFor(stats.TotalXP)
	stats.Level = info.Level
	stats.LevelName = info.Name
	stats.NextLevelXP = info.NextLevelXP
}

// AddXP は amount を加算した stats を返します。レベルが上がった場合 leveledUp は true。
// amount が正でなければ ErrInvalidInput を返し、stats は変更しない。
func AddXP(stats model.UserStats, amount int) (updated model.UserStats, leveledUp bool, err error) {
	if amount <= 0 {
		return stats, false, fmt.Errorf("xp amount must be positive, got %d: %w", amount, model.ErrInvalidInput)
	}
	prevLevel := LevelFor(stats.TotalXP).Level
	updated = stats
	updated.TotalXP += amount
	ApplyLevel(&updated)
	return updated, updated.Level > prevLevel, nil
}
