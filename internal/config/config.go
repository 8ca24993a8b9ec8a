package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Symbols  []string `yaml:"symbols"`
	Exchange string   `yaml:"exchange"`
	Bars     int      `yaml:"bars"`
	Workers  int      `yaml:"workers"`
	LogLevel string   `yaml:"log_level"`

	DataSource struct {
		BaseURL  string `yaml:"base_url"` // empty: use Yahoo Finance
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"data_source"`

	Cache struct {
		SQLitePath string `yaml:"sqlite_path"` // empty: no bar cache
		TTLHours   int    `yaml:"ttl_hours"`
	} `yaml:"cache"`

	Export struct {
		Dir string `yaml:"dir"` // empty: no xlsx export
	} `yaml:"export"`

	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`

	Telegram struct {
		BotToken string `yaml:"bot_token"` // empty: no notifications
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SCAN_SYMBOLS"); v != "" {
		cfg.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("SCAN_EXCHANGE"); v != "" {
		cfg.Exchange = v
	}
	if v := os.Getenv("SCAN_BARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Bars = n
		}
	}
	if v := os.Getenv("TVFEED_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("TVFEED_USERNAME"); v != "" {
		cfg.DataSource.Username = v
	}
	if v := os.Getenv("TVFEED_PASSWORD"); v != "" {
		cfg.DataSource.Password = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Exchange == "" {
		cfg.Exchange = "NSE"
	}
	if cfg.Bars == 0 {
		cfg.Bars = 1500
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 12
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 18 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols is required")
	}
	if c.Bars < 200 {
		return fmt.Errorf("bars must be at least 200 (long MA window)")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	return nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
