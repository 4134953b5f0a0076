package gamification

import (
	"kaiz1_core/internal/model"
)

// BadgeInput はバッジ判定に使う統計値
type BadgeInput struct {
	Stats  model.UserStats
	Streak *model.StreakRecord
}

func (in BadgeInput) currentStreak() int {
	if in.Streak == nil {
		return 0
	}
	return in.Streak.CurrentStreak
}

// BadgeRule は発火条件と解除されるバッジの組
// 条件は閾値との一致で判定する (カウンタは1ずつ増える前提)。
type BadgeRule struct {
	Badges  []model.BadgeType
	Trigger func(BadgeInput) bool
}

// BadgeRules はバッジの解除ルール表。評価順序に意味はない。
// レベルに応じたバッジを追加する場合は Stats.Level を見るルールをここに足す。
var BadgeRules = []BadgeRule{
	{
		Badges:  []model.BadgeType{model.BadgeFirstBook},
		Trigger: func(in BadgeInput) bool { return in.Stats.BooksCompleted == 1 },
	},
	{
		Badges:  []model.BadgeType{model.BadgeHundredBooks, model.BadgeScholar},
		Trigger: func(in BadgeInput) bool { return in.Stats.BooksCompleted == 100 },
	},
	{
		Badges:  []model.BadgeType{model.BadgeSevenDay},
		Trigger: func(in BadgeInput) bool { return in.currentStreak() == 7 },
	},
	{
		Badges:  []model.BadgeType{model.BadgeThirtyDay, model.BadgeConsistent},
		Trigger: func(in BadgeInput) bool { return in.currentStreak() == 30 },
	},
	{
		Badges:  []model.BadgeType{model.BadgeHundredDay},
		Trigger: func(in BadgeInput) bool { return in.currentStreak() == 100 },
	},
	{
		Badges:  []model.BadgeType{model.BadgeYearStreak},
		Trigger: func(in BadgeInput) bool { return in.currentStreak() == 365 },
	},
}

// EvaluateBadges は新たに解除されるバッジを返します。owned に含まれるものは返さない。
func EvaluateBadges(in BadgeInput, owned map[model.BadgeType]bool) []model.BadgeType {
	var unlocked []model.BadgeType
	seen := make(map[model.BadgeType]bool)
	for _, rule := range BadgeRules {
		if !rule.Trigger(in) {
			continue
		}
		for _, b := range rule.Badges {
			if owned[b] || seen[b] {
				continue
			}
			seen[b] = true
			unlocked = append(unlocked, b)
		}
	}
	return unlocked
}
