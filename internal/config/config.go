// internal/config/config.go
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	Driver      string `mapstructure:"driver"` // postgres | sqlite
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AppConfig はドメインロジックのパラメータ
type AppConfig struct {
	ReviewLimit             int     `mapstructure:"review_limit"`
	FeedSize                int     `mapstructure:"feed_size"`
	InterventionRatio       float64 `mapstructure:"intervention_ratio"`
	DefaultDailyGoalMinutes int     `mapstructure:"default_daily_goal_minutes"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	Issuer    string `mapstructure:"issuer"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// RedisConfig は Addr が空ならフィードセッションをメモリに置く
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	FeedTTL  time.Duration `mapstructure:"feed_ttl"`
}

type SchedulerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
}

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	App       AppConfig       `mapstructure:"app"`
	Auth      AuthConfig      `mapstructure:"auth"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

var Cfg Config

// setDefaults は設定ファイル・環境変数のどちらにも無い場合の値
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("database.driver", DefaultDatabaseDriver)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("app.review_limit", DefaultAppReviewLimit)
	v.SetDefault("app.feed_size", DefaultFeedSize)
	v.SetDefault("app.intervention_ratio", DefaultInterventionRatio)
	v.SetDefault("app.default_daily_goal_minutes", DefaultDailyGoalMinutes)
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("jwt.issuer", AppName)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-User-ID"})
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("redis.feed_ttl", DefaultFeedTTL)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.reminder_interval", DefaultReminderInterval)
}

// Load は path 配下の config.yaml と環境変数 (APP_ 接頭辞) から設定を読み込みます。
// グローバルな Cfg は変更しない。
func Load(path string) (Config, error) {
	// .env はあれば読む (無くてもエラーにしない)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// 例: APP_DATABASE_URL -> database.url
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return Config{}, err
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig は設定を読み込みグローバルな Cfg に格納します。
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Database Driver: %s", Cfg.Database.Driver)
	log.Printf("Review Limit: %d", Cfg.App.ReviewLimit)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)
	return nil
}

func (c *Config) normalize() error {
	if c.App.ReviewLimit <= 0 {
		log.Printf("App review limit not set or invalid, using default '%d'", DefaultAppReviewLimit)
		c.App.ReviewLimit = DefaultAppReviewLimit
	}
	if c.App.FeedSize < 0 {
		return errors.New("app.feed_size must not be negative")
	}
	if c.App.InterventionRatio < 0 || c.App.InterventionRatio > 1 {
		return errors.New("app.intervention_ratio must be within [0,1]")
	}
	if c.App.DefaultDailyGoalMinutes <= 0 {
		c.App.DefaultDailyGoalMinutes = DefaultDailyGoalMinutes
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("database.driver must be postgres or sqlite")
	}
	if c.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if c.Auth.Enabled && c.JWT.SecretKey == "" {
		return errors.New("jwt.secret_key is required when auth is enabled")
	}
	if c.Scheduler.ReminderInterval <= 0 {
		c.Scheduler.ReminderInterval = DefaultReminderInterval
	}
	return nil
}
