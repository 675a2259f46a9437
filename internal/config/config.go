package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds the configuration for the application.
// Values come from wellness.yaml, WELLNESS_* env vars and built-in defaults.
type Config struct {
	Env          string `mapstructure:"env"`
	DatabasePath string `mapstructure:"database_path"`
	StoreBackend string `mapstructure:"store_backend"`
	DataDir      string `mapstructure:"data_dir"`
	CatalogPath  string `mapstructure:"catalog_path"`
	PlanPath     string `mapstructure:"plan_path"`
	Port         string `mapstructure:"port"`
	APISecret    string `mapstructure:"api_secret"`
	LogLevel     string `mapstructure:"log_level"`

	// Telegram Config
	TelegramBotToken       string  `mapstructure:"telegram_bot_token"`
	TelegramWebhookURL     string  `mapstructure:"telegram_webhook_url"`
	TelegramAllowedUsers   string  `mapstructure:"telegram_allowed_user_ids"`
	TelegramAllowedUserIDs []int64 `mapstructure:"-"`
}

// LoadDotEnv loads a .env file outside production. A missing file is fine.
func LoadDotEnv() {
	if os.Getenv("WELLNESS_ENV") != "production" {
		_ = godotenv.Load()
	}
}

// Load builds the Config. configFile may be empty, in which case
// ./wellness.yaml is used when present.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WELLNESS")
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("database_path", "data/wellness.db")
	v.SetDefault("store_backend", BackendSQLite)
	v.SetDefault("data_dir", "data/store")
	v.SetDefault("catalog_path", "")
	v.SetDefault("plan_path", "")
	v.SetDefault("port", "8080")
	v.SetDefault("api_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_webhook_url", "")
	v.SetDefault("telegram_allowed_user_ids", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("wellness")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	ids, err := parseUserIDs(cfg.TelegramAllowedUsers)
	if err != nil {
		return nil, err
	}
	cfg.TelegramAllowedUserIDs = ids

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("WELLNESS_DATA_DIR environment variable not set")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.StoreBackend, BackendSQLite, BackendFile)
	}

	// Grocery snapshots and coach metrics always live in SQLite.
	if c.DatabasePath == "" {
		return fmt.Errorf("WELLNESS_DATABASE_PATH environment variable not set")
	}
	if c.Port == "" {
		return fmt.Errorf("WELLNESS_PORT environment variable not set")
	}
	return nil
}

// RequireTelegram checks the settings the Telegram bot cannot run without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("WELLNESS_TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("WELLNESS_TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("WELLNESS_TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
