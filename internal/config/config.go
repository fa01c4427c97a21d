// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HORARIOS_"

// Config holds the application configuration.
type Config struct {
	Normalize NormalizeConfig `toml:"normalize"`
	Summary   SummaryConfig   `toml:"summary"`
	Storage   StorageConfig   `toml:"storage"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
	UI        UIConfig        `toml:"ui"`
}

// NormalizeConfig holds the route normalization thresholds.
type NormalizeConfig struct {
	GapThresholdMinutes int      `toml:"gap_threshold_minutes"`
	GapInclusive        bool     `toml:"gap_inclusive"`
	EveningHour         int      `toml:"evening_hour"`
	MorningHour         int      `toml:"morning_hour"`
	CrossingPolicy      string   `toml:"crossing_policy"` // "heuristic", "shift", "either", "both"
	CrossingShifts      []string `toml:"crossing_shifts"` // e.g., ["NOTURNO", "VESPERTINO"]
	Parallel            bool     `toml:"parallel"`
}

// SummaryConfig holds sector panel settings.
type SummaryConfig struct {
	CountMode string `toml:"count_mode"` // "orders" or "agenda"
}

// StorageConfig holds run history settings.
type StorageConfig struct {
	DBPath  string `toml:"db_path"`
	History bool   `toml:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	CacheSize   int    `toml:"cache_size"`
	CacheTTL    string `toml:"cache_ttl"` // e.g., "15m"
	MaxUploadMB int    `toml:"max_upload_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// UIConfig holds terminal preview settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "frappe", "latte", "mono"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Normalize: NormalizeConfig{
			GapThresholdMinutes: schedule.DefaultGapThreshold,
			EveningHour:         schedule.DefaultEveningHour,
			MorningHour:         schedule.DefaultMorningHour,
			CrossingPolicy:      string(schedule.PolicyHeuristic),
			CrossingShifts:      slices.Clone(schedule.DefaultCrossingShifts),
		},
		Summary: SummaryConfig{
			CountMode: string(schedule.CountOrders),
		},
		Storage: StorageConfig{
			DBPath:  defaultDBPath(),
			History: true,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CacheSize:   256,
			CacheTTL:    "15m",
			MaxUploadMB: 32,
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".local", "share", "horarios", "history.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "horarios", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := map[string]*int{
		"GAP_THRESHOLD": &cfg.Normalize.GapThresholdMinutes,
		"EVENING_HOUR":  &cfg.Normalize.EveningHour,
		"MORNING_HOUR":  &cfg.Normalize.MorningHour,
		"CACHE_SIZE":    &cfg.Server.CacheSize,
		"MAX_UPLOAD_MB": &cfg.Server.MaxUploadMB,
	}
	for name, dst := range ints {
		v := os.Getenv(EnvPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"GAP_INCLUSIVE": &cfg.Normalize.GapInclusive,
		"PARALLEL":      &cfg.Normalize.Parallel,
		"HISTORY":       &cfg.Storage.History,
	}
	for name, dst := range bools {
		v := os.Getenv(EnvPrefix + name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
	}

	if v := os.Getenv(EnvPrefix + "CROSSING_POLICY"); v != "" {
		cfg.Normalize.CrossingPolicy = v
	}
	if v := os.Getenv(EnvPrefix + "CROSSING_SHIFTS"); v != "" {
		cfg.Normalize.CrossingShifts = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvPrefix + "COUNT_MODE"); v != "" {
		cfg.Summary.CountMode = v
	}
	if v := os.Getenv(EnvPrefix + "DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv(EnvPrefix + "ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvPrefix + "CACHE_TTL"); v != "" {
		cfg.Server.CacheTTL = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	n := c.Normalize
	if n.GapThresholdMinutes < 0 {
		return errors.New("gap_threshold_minutes must not be negative")
	}
	if err := validateHour(n.EveningHour, "evening_hour"); err != nil {
		return err
	}
	if err := validateHour(n.MorningHour, "morning_hour"); err != nil {
		return err
	}
	if n.MorningHour >= n.EveningHour {
		return errors.New("morning_hour must be before evening_hour")
	}
	if _, err := schedule.ParseCrossingPolicy(n.CrossingPolicy); err != nil {
		return err
	}
	if _, err := schedule.ParseCountMode(c.Summary.CountMode); err != nil {
		return err
	}

	if c.Storage.History && c.Storage.DBPath == "" {
		return errors.New("db_path must be set when history is enabled")
	}

	if c.Server.Addr == "" {
		return errors.New("server addr must be set")
	}
	if c.Server.CacheSize <= 0 {
		return errors.New("cache_size must be positive")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("max_upload_mb must be positive")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func validateHour(h int, field string) error {
	if h < 0 || h > 23 {
		return fmt.Errorf("%s must be between 0 and 23, got %d", field, h)
	}
	return nil
}

// Options converts the normalize section into schedule options.
// The config must be valid.
func (c *Config) Options(logger *slog.Logger) schedule.Options {
	policy, _ := schedule.ParseCrossingPolicy(c.Normalize.CrossingPolicy)
	return schedule.Options{
		GapThreshold:   c.Normalize.GapThresholdMinutes,
		GapInclusive:   c.Normalize.GapInclusive,
		EveningHour:    c.Normalize.EveningHour,
		MorningHour:    c.Normalize.MorningHour,
		Policy:         policy,
		CrossingShifts: slices.Clone(c.Normalize.CrossingShifts),
		Parallel:       c.Normalize.Parallel,
		Logger:         logger,
	}
}

// CountMode returns the parsed sector point count mode.
func (c *Config) CountMode() schedule.CountMode {
	m, err := schedule.ParseCountMode(c.Summary.CountMode)
	if err != nil {
		return schedule.CountOrders
	}
	return m
}

// CacheTTL returns the parsed cache entry lifetime.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("cache_ttl: %w", err)
	}
	if d <= 0 {
		return 0, errors.New("cache_ttl must be positive")
	}
	return d, nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
