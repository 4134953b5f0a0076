// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "kaiz1-core"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort        = ":8080"
	DefaultLogLevel          = "info"
	DefaultDatabaseDriver    = "postgres"
	DefaultAppReviewLimit    = 20
	DefaultFeedSize          = 20
	DefaultInterventionRatio = 0.4
	DefaultDailyGoalMinutes  = 15
	DefaultAuthEnabled       = false
	DefaultFeedTTL           = 6 * time.Hour
	DefaultReminderInterval  = time.Hour
	DefaultAccessTokenTTL    = 30 * 24 * time.Hour
)
