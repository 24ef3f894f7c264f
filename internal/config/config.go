package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"BreakoutBoard/internal/model"
)

// CSVSourceConfig describes one local CSV-backed data source.
type CSVSourceConfig struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Path        string `yaml:"path"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Sources struct {
		CSV     []CSVSourceConfig `yaml:"csv"`
		Binance struct {
			Enabled      bool   `yaml:"enabled"`
			Symbol       string `yaml:"symbol"`
			HistoryStart string `yaml:"history_start"` // YYYY-MM-DD
		} `yaml:"binance"`
	} `yaml:"sources"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Stream struct {
		Enabled  bool   `yaml:"enabled"`
		Symbol   string `yaml:"symbol"`
		Interval string `yaml:"interval"`
		// Source whose charts the live candle is merged into.
		Source string `yaml:"source"`
	} `yaml:"stream"`
	Strategy model.Params `yaml:"strategy"`
	Chart    struct {
		MaxPoints int `yaml:"max_points"`
	} `yaml:"chart"`
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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("BINANCE_SYMBOL"); v != "" {
		cfg.Sources.Binance.Symbol = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 6 * * *"
	}
	if cfg.Sources.Binance.Symbol == "" {
		cfg.Sources.Binance.Symbol = "BTCUSDT"
	}
	if cfg.Sources.Binance.HistoryStart == "" {
		cfg.Sources.Binance.HistoryStart = "2015-01-01"
	}
	if cfg.Stream.Symbol == "" {
		cfg.Stream.Symbol = cfg.Sources.Binance.Symbol
	}
	if cfg.Stream.Interval == "" {
		cfg.Stream.Interval = "1m"
	}
	if cfg.Stream.Source == "" {
		cfg.Stream.Source = "binance"
	}
	if cfg.Strategy == (model.Params{}) {
		cfg.Strategy = model.OptimizedParams()
	}
	if cfg.Chart.MaxPoints == 0 {
		cfg.Chart.MaxPoints = 1000
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if len(c.Sources.CSV) == 0 && !c.Sources.Binance.Enabled {
		return fmt.Errorf("at least one data source must be configured")
	}
	seen := make(map[string]bool)
	for _, s := range c.Sources.CSV {
		if s.Name == "" || s.Path == "" {
			return fmt.Errorf("csv sources require name and path")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
	}
	if c.Strategy.Lookback <= 0 {
		return fmt.Errorf("strategy.lookback_period must be positive")
	}
	if c.Strategy.RangeMult < 0 {
		return fmt.Errorf("strategy.range_mult must be non-negative")
	}
	if c.Strategy.ATRPeriod <= 0 {
		return fmt.Errorf("strategy.atr_period must be positive")
	}
	if _, err := c.BinanceStart(); err != nil {
		return err
	}
	return nil
}

// BinanceStart parses the configured Binance history start date.
func (c *Config) BinanceStart() (time.Time, error) {
	ts, err := time.Parse("2006-01-02", c.Sources.Binance.HistoryStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("sources.binance.history_start: %w", err)
	}
	return ts, nil
}
