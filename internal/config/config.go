// Package config loads storefront settings from an optional config.yaml and
// the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront service.
type Config struct {
	AppPort        string        `mapstructure:"APP_PORT" validate:"required"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER" validate:"oneof=sqlite postgres"`
	DatabaseDSN    string        `mapstructure:"DATABASE_DSN"`
	StateBackend   string        `mapstructure:"STATE_BACKEND" validate:"oneof=gorm redis memory"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisTTL       time.Duration `mapstructure:"REDIS_TTL" validate:"gte=0"`
	RabbitMQURL    string        `mapstructure:"RABBITMQ_URL"`
	CatalogFile    string        `mapstructure:"CATALOG_FILE"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT" validate:"oneof=console json"`
	CardDelay      time.Duration `mapstructure:"CHECKOUT_CARD_DELAY" validate:"gte=0"`
	PayPalDelay    time.Duration `mapstructure:"CHECKOUT_PAYPAL_DELAY" validate:"gte=0"`
	BankDelay      time.Duration `mapstructure:"CHECKOUT_BANK_DELAY" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "laoud.db")
	v.SetDefault("STATE_BACKEND", "gorm")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_TTL", "720h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("CATALOG_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CHECKOUT_CARD_DELAY", "2s")
	v.SetDefault("CHECKOUT_PAYPAL_DELAY", "1500ms")
	v.SetDefault("CHECKOUT_BANK_DELAY", "1500ms")
}

// Load reads config.yaml from the first of dirs that has one, then applies
// environment overrides. With no dirs the working directory is searched.
// A missing config file is not an error.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
