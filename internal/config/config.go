package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var.
type Config struct {
	// Server
	Port               int    `mapstructure:"PORT" validate:"min=1,max=65535"`
	Env                string `mapstructure:"APP_ENV"` // development | production
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE" validate:"min=1"`
	QueryMaxLimit      int    `mapstructure:"QUERY_MAX_LIMIT" validate:"min=1"`

	// Store
	StoreBackend string `mapstructure:"STORE_BACKEND" validate:"oneof=postgres memory"`
	DatabaseURL  string `mapstructure:"DATABASE_URL" validate:"required_if=StoreBackend postgres"`

	// Loader
	DataDir   string `mapstructure:"DATA_DIR" validate:"required"`
	BatchSize int    `mapstructure:"BATCH_SIZE" validate:"min=1,max=1638"` // 40 params per row, 65535 per statement
}

var validate = validator.New()

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	// Optional .env file for local development; a missing file is fine.
	// Variables already present in the environment win.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("PORT", 3000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 1000)
	viper.SetDefault("QUERY_MAX_LIMIT", 10000)
	viper.SetDefault("STORE_BACKEND", "postgres")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("BATCH_SIZE", 500)

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints declared in the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsProduction reports whether APP_ENV selects production behaviour
// (JSON logs, gin release mode).
func (c *Config) IsProduction() bool { return c.Env == "production" }
