// Package config loads application settings from .env, an optional YAML
// file and the environment, in that order of increasing priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/example/vocabmaster/internal/scheduler"
)

// Config holds the application configuration
type Config struct {
	Database    DatabaseConfig  `yaml:"database"`
	NATS        NATSConfig      `yaml:"nats"`
	Generator   GeneratorConfig `yaml:"generator"`
	Telegram    TelegramConfig  `yaml:"telegram"`
	Reminders   RemindersConfig `yaml:"reminders"`
	MetricsAddr string          `yaml:"metrics_addr"`
	UserID      string          `yaml:"user_id"` // empty means guest mode
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type NATSConfig struct {
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
}

type GeneratorConfig struct {
	Provider        string  `yaml:"provider"` // gemini or openai
	GeminiAPIKey    string  `yaml:"gemini_api_key"`
	GeminiModel     string  `yaml:"gemini_model"`
	OpenAIAPIKey    string  `yaml:"openai_api_key"`
	MeaningLanguage string  `yaml:"meaning_language"`
	Concurrency     int     `yaml:"concurrency"`
	RPS             float64 `yaml:"rps"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type RemindersConfig struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "sqlite3", DSN: "data/vocabmaster.db"},
		NATS:     NATSConfig{Bucket: "vocabmaster"},
		Generator: GeneratorConfig{
			Provider:        "gemini",
			GeminiModel:     "gemini-2.5-flash",
			MeaningLanguage: "Vietnamese",
			Concurrency:     3,
			RPS:             2,
		},
		Reminders:   RemindersConfig{StartHour: scheduler.DefaultNotificationStartHour, EndHour: scheduler.DefaultNotificationEndHour},
		MetricsAddr: ":9090",
	}
}

// Load reads .env (if present), the YAML file named by VOCAB_CONFIG and
// then environment overrides
func Load() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("VOCAB_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("NATS_URL", &c.NATS.URL)
	str("NATS_BUCKET", &c.NATS.Bucket)
	str("GENERATOR", &c.Generator.Provider)
	str("GEMINI_API_KEY", &c.Generator.GeminiAPIKey)
	str("GEMINI_MODEL", &c.Generator.GeminiModel)
	str("OPENAI_API_KEY", &c.Generator.OpenAIAPIKey)
	str("MEANING_LANGUAGE", &c.Generator.MeaningLanguage)
	str("TELEGRAM_BOT_TOKEN", &c.Telegram.Token)
	str("METRICS_ADDR", &c.MetricsAddr)
	str("VOCAB_USER_ID", &c.UserID)

	if err := integer("GENERATION_CONCURRENCY", &c.Generator.Concurrency); err != nil {
		return err
	}
	if err := integer("NOTIFICATION_START_HOUR", &c.Reminders.StartHour); err != nil {
		return err
	}
	if err := integer("NOTIFICATION_END_HOUR", &c.Reminders.EndHour); err != nil {
		return err
	}
	if v := strings.TrimSpace(getenv("GENERATION_RPS")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid GENERATION_RPS: %w", err)
		}
		c.Generator.RPS = rps
	}
	if v := strings.TrimSpace(getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Generator.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported GENERATOR %q", c.Generator.Provider)
	}
	r := c.Reminders
	if r.StartHour < 0 || r.StartHour > 23 || r.EndHour < 0 || r.EndHour > 23 || r.StartHour > r.EndHour {
		return fmt.Errorf("invalid notification window %d-%d", r.StartHour, r.EndHour)
	}
	return nil
}
