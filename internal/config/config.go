package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	MinWindowDays = 0
	MaxWindowDays = 2000

	DefaultWindowDays    = 500
	DefaultHorizon       = 10
	DefaultRollingWindow = 20
	DefaultPercentile    = 75.0
)

// Analysis holds the recognised pipeline options.
type Analysis struct {
	WindowDays    int     `yaml:"window_days"`
	Horizon       int     `yaml:"horizon"`
	RollingWindow int     `yaml:"rolling_window"`
	Percentile    float64 `yaml:"percentile"`
}

// DefaultAnalysis returns the analysis options used when nothing is configured.
func DefaultAnalysis() Analysis {
	return Analysis{
		WindowDays:    DefaultWindowDays,
		Horizon:       DefaultHorizon,
		RollingWindow: DefaultRollingWindow,
		Percentile:    DefaultPercentile,
	}
}

// Validate checks every option against its allowed range.
func (a Analysis) Validate() error {
	if a.WindowDays < MinWindowDays || a.WindowDays > MaxWindowDays {
		return &ConfigurationError{Field: "window_days", Value: a.WindowDays, Allowed: fmt.Sprintf("[%d, %d]", MinWindowDays, MaxWindowDays)}
	}
	if a.Horizon < 1 {
		return &ConfigurationError{Field: "horizon", Value: a.Horizon, Allowed: ">= 1"}
	}
	if a.RollingWindow < 2 {
		return &ConfigurationError{Field: "rolling_window", Value: a.RollingWindow, Allowed: ">= 2"}
	}
	if math.IsNaN(a.Percentile) || a.Percentile < 0 || a.Percentile > 100 {
		return &ConfigurationError{Field: "percentile", Value: a.Percentile, Allowed: "[0, 100]"}
	}
	return nil
}

// Config holds all application configuration.
type Config struct {
	Analysis   Analysis `yaml:"analysis"`
	DataSource struct {
		Type   string `yaml:"type"` // "csv" or "yahoo"
		Path   string `yaml:"path"`
		Symbol string `yaml:"symbol"`
	} `yaml:"data_source"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "console" or "json"
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	// Analysis defaults are set before decoding so that an explicit
	// window_days: 0 in the file survives.
	cfg := &Config{Analysis: DefaultAnalysis()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("VOLSENTINEL_DATA_PATH"); v != "" {
		c.DataSource.Path = v
	}
	if v := os.Getenv("VOLSENTINEL_SOURCE"); v != "" {
		c.DataSource.Type = v
	}
	if v := os.Getenv("VOLSENTINEL_SYMBOL"); v != "" {
		c.DataSource.Symbol = v
	}
	if v := os.Getenv("VOLSENTINEL_WINDOW_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigurationError{Field: "VOLSENTINEL_WINDOW_DAYS", Value: v, Allowed: "integer"}
		}
		c.Analysis.WindowDays = n
	}
	if v := os.Getenv("VOLSENTINEL_CRON"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("VOLSENTINEL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Type == "" {
		c.DataSource.Type = "csv"
	}
	if c.DataSource.Path == "" {
		c.DataSource.Path = "data/raw/AAPL.csv"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "AAPL"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 30 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/volsentinel.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks the analysis options and data source settings.
func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	switch c.DataSource.Type {
	case "csv":
		if c.DataSource.Path == "" {
			return &ConfigurationError{Field: "data_source.path", Value: "", Allowed: "non-empty path"}
		}
	case "yahoo":
		if c.DataSource.Symbol == "" {
			return &ConfigurationError{Field: "data_source.symbol", Value: "", Allowed: "non-empty ticker"}
		}
	default:
		return &ConfigurationError{Field: "data_source.type", Value: c.DataSource.Type, Allowed: "csv | yahoo"}
	}
	return nil
}

// TelegramEnabled reports whether alert delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
