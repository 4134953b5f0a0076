// Package calendar は日付単位の比較に使うヘルパーです。
// 日付はすべて UTC で扱い、ローカル時刻は使わない。
package calendar

import "time"

// DateLayout は日付キーの形式 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// StartOfDay は t の UTC 日付の 00:00 を返します。
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey は t の UTC 日付キーを返します。
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// YesterdayKey は t の前日の日付キーを返します。
func YesterdayKey(t time.Time) string {
	return DateKey(StartOfDay(t).AddDate(0, 0, -1))
}

// AddDays は t の日付の 00:00 から days 日後を返します。
func AddDays(t time.Time, days int) time.Time {
	return StartOfDay(t).AddDate(0, 0, days)
}
