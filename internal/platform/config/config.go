package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment  string        `envconfig:"APP_ENV" default:"development"`
	Addr         string        `envconfig:"APP_ADDR" default:":8080"`
	BaseURL      string        `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`
	ReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed       bool   `envconfig:"RUN_SEED" default:"true"`

	RedisAddr           string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	PermissionsCacheTTL time.Duration `envconfig:"PERMISSIONS_CACHE_TTL" default:"5m"`
	StatsCacheTTL       time.Duration `envconfig:"STATS_CACHE_TTL" default:"1m"`

	JWTSecret         string `envconfig:"JWT_SECRET"`
	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL" default:"admin@example.com"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`

	MaxBodyBytes           int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RateLimitPerMinute     int   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	AuthRateLimitPerMinute int   `envconfig:"AUTH_RATE_LIMIT_PER_MINUTE" default:"10"`
	MetricsEnabled         bool  `envconfig:"METRICS_ENABLED" default:"true"`

	EmailEnabled      bool   `envconfig:"EMAIL_ENABLED" default:"false"`
	EmailFrom         string `envconfig:"EMAIL_FROM" default:"no-reply@example.com"`
	SMTPHost          string `envconfig:"SMTP_HOST"`
	SMTPPort          int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser          string `envconfig:"SMTP_USER"`
	SMTPPassword      string `envconfig:"SMTP_PASSWORD"`
	SMTPUseTLS        bool   `envconfig:"SMTP_USE_TLS" default:"true"`
	WorkerConcurrency int    `envconfig:"WORKER_CONCURRENCY" default:"5"`
	ResetPurgeSpec    string `envconfig:"RESET_PURGE_SPEC" default:"0 3 * * *"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
	} else if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.IsProduction() && c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 || c.AuthRateLimitPerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}
