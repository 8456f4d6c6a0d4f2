// Package config loads application settings from .env, config.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds every setting the application reads at startup.
type Config struct {
	AppTitle           string        `mapstructure:"APP_TITLE"`
	Env                string        `mapstructure:"APP_ENV"`
	Debug              bool          `mapstructure:"APP_DEBUG"`
	BaseURL            string        `mapstructure:"BASE_URL"`
	Port               string        `mapstructure:"PORT"`
	DBDriver           string        `mapstructure:"DB_DRIVER"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	PublicDir          string        `mapstructure:"PUBLIC_DIR"`
	ViewsDir           string        `mapstructure:"VIEWS_DIR"`
	ImageStorage       string        `mapstructure:"IMAGE_STORAGE"`
	GCSBucket          string        `mapstructure:"GCS_BUCKET_NAME"`
	GCSProjectID       string        `mapstructure:"GCS_PROJECT_ID"`
	LogPath            string        `mapstructure:"LOG_PATH"`
	PerPage            int           `mapstructure:"PER_PAGE"`
	RateLimitPerMinute int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	SessionLifetime    time.Duration `mapstructure:"SESSION_LIFETIME"`
}

// Load reads .env (if present), an optional config.yml and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_TITLE", "MVC Blog")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("BASE_URL", "http://localhost:8000")
	v.SetDefault("PORT", "8000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("PUBLIC_DIR", "./public")
	v.SetDefault("VIEWS_DIR", "")
	v.SetDefault("IMAGE_STORAGE", "local")
	v.SetDefault("GCS_BUCKET_NAME", "")
	v.SetDefault("GCS_PROJECT_ID", "")
	v.SetDefault("LOG_PATH", "storage/logs/error.log")
	v.SetDefault("PER_PAGE", 15)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("SESSION_LIFETIME", 2*time.Hour)
}

// Validate checks required values and the production-only constraints.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.ImageStorage {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET_NAME is required when IMAGE_STORAGE is gcs")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORAGE %q", c.ImageStorage)
	}

	if c.PerPage <= 0 {
		c.PerPage = 15
	}

	if c.IsProduction() {
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required in production")
		}
		if c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	}

	return nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// IsTesting reports whether rate limiting and other production guards should be relaxed.
func (c *Config) IsTesting() bool {
	env := strings.ToLower(c.Env)
	return env == "test" || env == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
