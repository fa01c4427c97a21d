package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Normalize.GapThresholdMinutes != 10 {
		t.Errorf("expected gap threshold 10, got %d", cfg.Normalize.GapThresholdMinutes)
	}
	if cfg.Normalize.EveningHour != 18 || cfg.Normalize.MorningHour != 10 {
		t.Errorf("expected evening/morning 18/10, got %d/%d", cfg.Normalize.EveningHour, cfg.Normalize.MorningHour)
	}
	if cfg.Normalize.CrossingPolicy != "heuristic" {
		t.Errorf("expected heuristic policy, got %s", cfg.Normalize.CrossingPolicy)
	}
	if cfg.Summary.CountMode != "orders" {
		t.Errorf("expected count mode orders, got %s", cfg.Summary.CountMode)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
	if !cfg.Storage.History {
		t.Error("expected history enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Normalize.GapThresholdMinutes != 10 {
		t.Errorf("expected default gap threshold, got %d", cfg.Normalize.GapThresholdMinutes)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[normalize]
gap_threshold_minutes = 15
gap_inclusive = true
evening_hour = 20
morning_hour = 6
crossing_policy = "either"
crossing_shifts = ["NOTURNO"]

[summary]
count_mode = "agenda"

[storage]
db_path = "/tmp/test.db"

[server]
addr = "127.0.0.1:9000"
cache_ttl = "1h"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Normalize.GapThresholdMinutes != 15 || !cfg.Normalize.GapInclusive {
		t.Errorf("expected inclusive 15 minute gaps, got %+v", cfg.Normalize)
	}
	if cfg.Normalize.EveningHour != 20 || cfg.Normalize.MorningHour != 6 {
		t.Errorf("expected evening/morning 20/6, got %d/%d", cfg.Normalize.EveningHour, cfg.Normalize.MorningHour)
	}
	if len(cfg.Normalize.CrossingShifts) != 1 {
		t.Errorf("expected 1 crossing shift, got %v", cfg.Normalize.CrossingShifts)
	}
	if cfg.CountMode() != schedule.CountAgenda {
		t.Errorf("expected agenda count mode, got %s", cfg.CountMode())
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("expected addr 127.0.0.1:9000, got %s", cfg.Server.Addr)
	}
	// Untouched sections keep defaults
	if cfg.Server.MaxUploadMB != 32 {
		t.Errorf("expected default max_upload_mb 32, got %d", cfg.Server.MaxUploadMB)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[normalize]
gap_threshold_minutes = 15
evening_hour = 19

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("HORARIOS_GAP_THRESHOLD", "5")
	t.Setenv("HORARIOS_PARALLEL", "true")
	t.Setenv("HORARIOS_CROSSING_SHIFTS", "NOTURNO,MADRUGADA")
	t.Setenv("HORARIOS_LOG_LEVEL", "debug")
	t.Setenv("HORARIOS_THEME", "latte")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Normalize.GapThresholdMinutes != 5 {
		t.Errorf("expected gap threshold 5 from env, got %d", cfg.Normalize.GapThresholdMinutes)
	}
	// File value should be kept when no env override
	if cfg.Normalize.EveningHour != 19 {
		t.Errorf("expected evening_hour 19 from file, got %d", cfg.Normalize.EveningHour)
	}
	// Env should override default
	if !cfg.Normalize.Parallel {
		t.Error("expected parallel from env")
	}
	if len(cfg.Normalize.CrossingShifts) != 2 || cfg.Normalize.CrossingShifts[1] != "MADRUGADA" {
		t.Errorf("expected crossing shifts from env, got %v", cfg.Normalize.CrossingShifts)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte from env, got %s", cfg.UI.Theme)
	}
	if lvl, _ := cfg.LogLevel(); lvl != slog.LevelDebug {
		t.Errorf("expected debug level from env, got %v", lvl)
	}
}

func TestLoadFrom_BadEnvValue(t *testing.T) {
	t.Setenv("HORARIOS_EVENING_HOUR", "late")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric HORARIOS_EVENING_HOUR")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative gap", func(c *Config) { c.Normalize.GapThresholdMinutes = -1 }},
		{"hour out of range", func(c *Config) { c.Normalize.EveningHour = 24 }},
		{"morning after evening", func(c *Config) { c.Normalize.MorningHour = 20 }},
		{"unknown policy", func(c *Config) { c.Normalize.CrossingPolicy = "sometimes" }},
		{"unknown count mode", func(c *Config) { c.Summary.CountMode = "rows" }},
		{"history without path", func(c *Config) { c.Storage.DBPath = "" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad ttl", func(c *Config) { c.Server.CacheTTL = "soon" }},
		{"zero ttl", func(c *Config) { c.Server.CacheTTL = "0s" }},
		{"zero upload", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	cfg := Default()
	cfg.Storage.History = false
	cfg.Storage.DBPath = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("db_path is optional without history: %v", err)
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Normalize.CrossingPolicy = "Both"
	cfg.Normalize.GapInclusive = true

	opts := cfg.Options(nil)
	if opts.Policy != schedule.PolicyBoth {
		t.Errorf("expected policy both, got %s", opts.Policy)
	}
	if !opts.GapInclusive || opts.GapThreshold != 10 {
		t.Errorf("unexpected gap options: %+v", opts)
	}

	opts.CrossingShifts[0] = "CHANGED"
	if cfg.Normalize.CrossingShifts[0] == "CHANGED" {
		t.Error("Options must not alias the config's crossing shifts")
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := Default()

	ttl, err := cfg.CacheTTL()
	if err != nil || ttl != 15*time.Minute {
		t.Errorf("CacheTTL() = %v, %v; want 15m", ttl, err)
	}
	if got := cfg.MaxUploadBytes(); got != 32<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", got, 32<<20)
	}
	if lvl, err := cfg.LogLevel(); err != nil || lvl != slog.LevelInfo {
		t.Errorf("LogLevel() = %v, %v; want info", lvl, err)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Normalize.GapThresholdMinutes = 20
	cfg.Normalize.CrossingPolicy = "shift"
	cfg.Server.CacheSize = 64

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Normalize.GapThresholdMinutes != 20 {
		t.Errorf("expected gap threshold 20, got %d", loaded.Normalize.GapThresholdMinutes)
	}
	if loaded.Normalize.CrossingPolicy != "shift" {
		t.Errorf("expected crossing policy shift, got %s", loaded.Normalize.CrossingPolicy)
	}
	if loaded.Server.CacheSize != 64 {
		t.Errorf("expected cache size 64, got %d", loaded.Server.CacheSize)
	}
}
