// Package srs はフラッシュカードの間隔反復スケジューラです。
package srs

import (
	"math"
	"time"

	"kaiz1_core/internal/calendar"
	"kaiz1_core/internal/model"
)

const (
	easeStep    = 0.1
	easePenalty = 0.2
	// MaxInterval を超えて間隔を伸ばさない (100年)
	MaxInterval = 36500
)

// Review は復習結果を反映したカードを返します。引数のカードは変更しません。
//
// 正解: interval 0 -> 1、それ以外は2倍。ease +0.1 (上限 2.5)
// 不正解: interval 1。ease -0.2 (下限 1.3)
// 次回復習日は今日 (UTC) から interval 日後。
func Review(card model.Flashcard, correct bool, now time.Time) model.Flashcard {
	next := card
	next.ReviewCount++

	if correct {
		if card.Interval <= 0 {
			next.Interval = 1
		} else {
			next.Interval = min(card.Interval*2, MaxInterval)
		}
		next.EaseFactor = ClampEase(card.EaseFactor + easeStep)
		next.CorrectCount++
	} else {
		next.Interval = 1
		next.EaseFactor = ClampEase(card.EaseFactor - easePenalty)
		next.IncorrectCount++
	}

	next.NextReviewDate = calendar.AddDays(now, next.Interval)
	reviewedAt := now.UTC()
	next.LastReviewedAt = &reviewedAt
	return next
}

// ClampEase は ease を小数第2位で丸め、[1.3, 2.5] に収めます。
func ClampEase(ease float64) float64 {
	rounded := math.Round(ease*100) / 100
	return math.Min(math.Max(rounded, model.MinEaseFactor), model.MaxEaseFactor)
}

// IsDue は nextReviewDate <= now のときに true を返します。
func IsDue(card model.Flashcard, now time.Time) bool {
	return !card.NextReviewDate.After(now)
}
