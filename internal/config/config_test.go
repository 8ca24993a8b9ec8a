package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load with missing file: %v", err)
	}
	if cfg.Exchange != "NSE" {
		t.Errorf("expected default exchange NSE, got %q", cfg.Exchange)
	}
	if cfg.Bars != 1500 {
		t.Errorf("expected default 1500 bars, got %d", cfg.Bars)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected default 4 workers, got %d", cfg.Workers)
	}
	if cfg.Cache.TTLHours != 12 {
		t.Errorf("expected default cache TTL 12h, got %d", cfg.Cache.TTLHours)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
symbols: [AVALON, BLISSGVS]
exchange: BSE
bars: 800
data_source:
  base_url: https://feed.example.com
`)
	t.Setenv("SCAN_EXCHANGE", "NSE")
	t.Setenv("SCAN_SYMBOLS", "GALLANTT, INFY ,")
	t.Setenv("TVFEED_USERNAME", "trader")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Exchange != "NSE" {
		t.Errorf("env should override file, got %q", cfg.Exchange)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[0] != "GALLANTT" || cfg.Symbols[1] != "INFY" {
		t.Errorf("unexpected symbols: %v", cfg.Symbols)
	}
	if cfg.Bars != 800 {
		t.Errorf("file value should survive, got %d", cfg.Bars)
	}
	if cfg.DataSource.Username != "trader" {
		t.Errorf("unexpected username: %q", cfg.DataSource.Username)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no symbols", func(c *Config) { c.Symbols = nil }, true},
		{"bars below MA window", func(c *Config) { c.Bars = 100 }, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, true},
		{"telegram token without chat", func(c *Config) { c.Telegram.BotToken = "tok" }, true},
	}
	for _, tt := range tests {
		cfg := &Config{
			Symbols:  []string{"AVALON"},
			Exchange: "NSE",
			Bars:     1500,
			Workers:  4,
		}
		tt.mutate(cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err=%v, wantErr=%v", tt.name, err, tt.wantErr)
		}
	}
}
