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

type AppCfg struct{ Env, Port, LogLevel string }

// APICfg points the client at the REST backend.
type APICfg struct {
	BaseURL    string
	Token      string
	TimeoutSec int
	MaxRetries int
}

type UICfg struct{ SearchDebounce time.Duration }
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type SecurityCfg struct {
	JWTSecret       string
	RateLimitPerMin int
}

type WorkerCfg struct{ StorySweepEvery time.Duration }

type Cfg struct {
	App    AppCfg
	API    APICfg
	UI     UICfg
	DB     DBCfg
	Redis  RedisCfg
	Sec    SecurityCfg
	Worker WorkerCfg
}

// Load reads .env (if present) into the process environment and builds the
// config from environment variables.
func Load() Cfg {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:3000")
	v.SetDefault("HTTP_TIMEOUT_SEC", 30)
	v.SetDefault("HTTP_MAX_RETRIES", 2)
	v.SetDefault("SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("RATE_LIMIT_PER_MIN", 300)
	v.SetDefault("STORY_SWEEP_EVERY", "1m")

	return Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		API: APICfg{
			BaseURL:    strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Token:      strings.TrimSpace(v.GetString("API_TOKEN")),
			TimeoutSec: v.GetInt("HTTP_TIMEOUT_SEC"),
			MaxRetries: v.GetInt("HTTP_MAX_RETRIES"),
		},
		UI:    UICfg{SearchDebounce: time.Duration(v.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond},
		DB:    DBCfg{DSN: v.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: v.GetString("REDIS_ADDR")},
		Sec: SecurityCfg{
			JWTSecret:       strings.TrimSpace(v.GetString("JWT_SECRET")),
			RateLimitPerMin: v.GetInt("RATE_LIMIT_PER_MIN"),
		},
		Worker: WorkerCfg{StorySweepEvery: v.GetDuration("STORY_SWEEP_EVERY")},
	}
}

// ValidateServer checks the settings the dev API cannot run without.
func (c Cfg) ValidateServer() error {
	var errs []error
	if c.Sec.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.App.Port == "" {
		errs = append(errs, errors.New("APP_PORT is required"))
	}
	if c.Worker.StorySweepEvery <= 0 {
		errs = append(errs, errors.New("STORY_SWEEP_EVERY must be positive"))
	}
	return errors.Join(errs...)
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(app AppCfg) {
	level, err := zerolog.ParseLevel(strings.ToLower(app.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if app.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
