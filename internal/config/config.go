// Package config loads and saves the payback TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/payback/internal/money"
	"github.com/theirongolddev/payback/internal/payday"
	"github.com/theirongolddev/payback/internal/reminder"
)

// Config holds all payback configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Currency   CurrencyConfig   `toml:"currency"`
	Payday     PaydayConfig     `toml:"payday"`
	Reminders  RemindersConfig  `toml:"reminders"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir        string `toml:"data_dir,omitempty"`
	OriginalAmount string `toml:"original_amount"`
}

// CurrencyConfig selects the display currency.
type CurrencyConfig struct {
	Code   string `toml:"code"`
	Locale string `toml:"locale"`
}

// PaydayConfig describes the payday rule.
type PaydayConfig struct {
	Weekday      string `toml:"weekday"`
	Time         string `toml:"time"`
	IntervalDays int    `toml:"interval_days"`
}

// RemindersConfig controls the reminder batch.
type RemindersConfig struct {
	Count    int    `toml:"count"`
	IDPrefix string `toml:"id_prefix"`
	Title    string `toml:"title"`
	Body     string `toml:"body"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds the reminder daemon settings.
type DaemonConfig struct {
	Addr        string `toml:"addr"`
	IntervalSec int    `toml:"interval_sec"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// envOverrides are read from PAYBACK_* environment variables.
type envOverrides struct {
	DataDir  string `envconfig:"DATA_DIR"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	Theme    string `envconfig:"THEME"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	rc := reminder.DefaultConfig()
	return Config{
		General: GeneralConfig{
			OriginalAmount: "5055.00",
		},
		Currency: CurrencyConfig{
			Code:   "USD",
			Locale: "en-US",
		},
		Payday: PaydayConfig{
			Weekday:      "wednesday",
			Time:         "09:00",
			IntervalDays: payday.DefaultIntervalDays,
		},
		Reminders: RemindersConfig{
			Count:    rc.Count,
			IDPrefix: rc.IDPrefix,
			Title:    rc.Title,
			Body:     rc.Body,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8797",
			IntervalSec: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "payback")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "payback")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "payback")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "payback")
}

// Load reads the config file, returning defaults if it doesn't exist.
// PAYBACK_* environment variables override file values.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load for an explicit file path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("PAYBACK", &env); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	if env.DataDir != "" {
		cfg.General.DataDir = env.DataDir
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Theme != "" {
		cfg.Appearance.Theme = env.Theme
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo is Save for an explicit file path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// DataDir returns the configured data directory or the default one.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// DBPath returns the SQLite database path inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir(), "payback.db")
}

// LogPath returns the log file path inside the data directory.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir(), "payback.log")
}

// OriginalAmount parses the default original debt amount.
func (c Config) OriginalAmount() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.General.OriginalAmount)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("general.original_amount %q: %w", c.General.OriginalAmount, money.ErrInvalidAmount)
	}
	return d, nil
}

// Calendar builds the payday rule in the local time zone.
func (c Config) Calendar() (payday.Calendar, error) {
	wd, err := payday.ParseWeekday(c.Payday.Weekday)
	if err != nil {
		return payday.Calendar{}, err
	}
	h, m, err := payday.ParseClock(c.Payday.Time)
	if err != nil {
		return payday.Calendar{}, err
	}
	cal := payday.Calendar{
		Weekday:      wd,
		Hour:         h,
		Minute:       m,
		IntervalDays: c.Payday.IntervalDays,
	}
	return cal, cal.Validate()
}

// ReminderConfig converts the [reminders] section.
func (c Config) ReminderConfig() reminder.Config {
	return reminder.Config{
		Count:    c.Reminders.Count,
		IDPrefix: c.Reminders.IDPrefix,
		Title:    c.Reminders.Title,
		Body:     c.Reminders.Body,
	}
}

// Formatter builds the currency formatter.
func (c Config) Formatter() *money.Formatter {
	return money.NewFormatter(c.Currency.Code, c.Currency.Locale)
}
