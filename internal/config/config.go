package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env  string
	Port string
}

type DBCfg struct {
	DSN     string
	Migrate bool
	MaxWait time.Duration
}

type RedisCfg struct{ Addr string }

type AuthCfg struct {
	JWTSecret        string
	JWTExpire        time.Duration
	CookieExpireDays int
}

type GeocoderCfg struct {
	APIKey  string
	BaseURL string
}

type Cfg struct {
	App               AppCfg
	DB                DBCfg
	Redis             RedisCfg
	Auth              AuthCfg
	Geocoder          GeocoderCfg
	RateLimitPerMin   int
	ReconcileInterval time.Duration
	LogLevel          string
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c Cfg) IsProduction() bool { return c.App.Env == "production" }

// Load reads .env (if present) and the process environment.
func Load() (Cfg, error) {
	// missing .env is fine, the environment may already be populated
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("DB_MAX_WAIT", "30s")
	v.SetDefault("RATE_LIMIT_PER_MIN", 100)
	v.SetDefault("JWT_EXPIRE", "720h")
	v.SetDefault("JWT_COOKIE_EXPIRE_DAYS", 30)
	v.SetDefault("GEOCODER_BASE_URL", "https://www.mapquestapi.com")
	v.SetDefault("RECONCILE_INTERVAL", "10m")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := Cfg{
		App: AppCfg{
			Env:  v.GetString("APP_ENV"),
			Port: v.GetString("APP_PORT"),
		},
		DB: DBCfg{
			DSN:     v.GetString("DB_DSN"),
			Migrate: v.GetBool("DB_MIGRATE"),
			MaxWait: v.GetDuration("DB_MAX_WAIT"),
		},
		Redis: RedisCfg{Addr: v.GetString("REDIS_ADDR")},
		Auth: AuthCfg{
			JWTSecret:        strings.TrimSpace(v.GetString("JWT_SECRET")),
			JWTExpire:        v.GetDuration("JWT_EXPIRE"),
			CookieExpireDays: v.GetInt("JWT_COOKIE_EXPIRE_DAYS"),
		},
		Geocoder: GeocoderCfg{
			APIKey:  strings.TrimSpace(v.GetString("GEOCODER_API_KEY")),
			BaseURL: v.GetString("GEOCODER_BASE_URL"),
		},
		RateLimitPerMin:   v.GetInt("RATE_LIMIT_PER_MIN"),
		ReconcileInterval: v.GetDuration("RECONCILE_INTERVAL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}

	// fail fast on required settings
	if cfg.DB.DSN == "" {
		return cfg, errors.New("DB_DSN is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if cfg.Auth.JWTExpire <= 0 {
		return cfg, errors.New("JWT_EXPIRE must be a positive duration")
	}
	return cfg, nil
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(cfg Cfg) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
