// internal/model/event.go
package model

// EventType はUIに返す「新たに発生した」イベントの種類
type EventType string

const (
	EventXPAwarded       EventType = "xp_awarded"
	EventLevelUp         EventType = "level_up"
	EventStreakMilestone EventType = "streak_milestone"
	EventBadgeUnlocked   EventType = "badge_unlocked"
)

// Event は1つの操作で発生したイベント。Type に応じて使われるフィールドが異なる。
type Event struct {
	Type         EventType `json:"type"`
	XP           int       `json:"xp,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Level        int       `json:"level,omitempty"`
	LevelName    string    `json:"level_name,omitempty"`
	StreakLength int       `json:"streak_length,omitempty"`
	Badge        *Badge    `json:"badge,omitempty"`
}

// ActivityResult は更新後の集計値と、その操作で発生したイベントの一覧
type ActivityResult struct {
	Stats  *UserStats    `json:"stats"`
	Streak *StreakRecord `json:"streak,omitempty"`
	Events []Event       `json:"events"`
}
