package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TradingAdvisor/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	App struct {
		Name        string `yaml:"name"`
		LogLevel    string `yaml:"log_level"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"app"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider    string   `yaml:"provider"` // yahoo | vstrader | mock
		BaseURL     string   `yaml:"base_url"`
		APIKey      string   `yaml:"api_key"`
		Watchlist   []string `yaml:"watchlist"`
		Overview    []string `yaml:"overview"`
		HistoryDays int      `yaml:"history_days"`
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
		ScanCron  string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Analysis strategy.Params `yaml:"analysis"`
	Account  struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"account"`
	Scanner struct {
		MaxConcurrent int           `yaml:"max_concurrent"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		MinPrice      float64       `yaml:"min_price"`
		MaxPrice      float64       `yaml:"max_price"`
		MinVolume     float64       `yaml:"min_volume"`
	} `yaml:"scanner"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults.
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

	// A missing .env is fine; real environment variables win over it.
	_ = godotenv.Load()

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.DataSource.Watchlist = splitList(v)
	}
	if v := os.Getenv("OVERVIEW"); v != "" {
		cfg.DataSource.Overview = splitList(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ACCOUNT_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.AccountSize = f
		}
	}
	if v := os.Getenv("RISK_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.RiskFraction = f
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.App.MetricsAddr = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "TradingAdvisor"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if len(c.DataSource.Watchlist) == 0 {
		c.DataSource.Watchlist = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META", "SPY"}
	}
	for i, s := range c.DataSource.Watchlist {
		c.DataSource.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if len(c.DataSource.Overview) == 0 {
		c.DataSource.Overview = []string{"SPY", "QQQ", "AAPL", "MSFT", "GOOGL", "TSLA", "NVDA"}
	}
	for i, s := range c.DataSource.Overview {
		c.DataSource.Overview[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = 120
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 8 * * 1-5"
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 0 22 * * 1-5"
	}
	c.Analysis = c.Analysis.WithDefaults()
	if c.Account.StateFile == "" {
		c.Account.StateFile = "data/account_state.yaml"
	}
	if c.Scanner.MaxConcurrent == 0 {
		c.Scanner.MaxConcurrent = 4
	}
	if c.Scanner.CacheTTL == 0 {
		c.Scanner.CacheTTL = 5 * time.Minute
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/trading_advisor.db"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for vstrader")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.HistoryDays < c.Analysis.SlowPeriod {
		return fmt.Errorf("data_source.history_days must be at least %d", c.Analysis.SlowPeriod)
	}
	if !(c.Analysis.AccountSize >= 0) || math.IsInf(c.Analysis.AccountSize, 0) {
		return fmt.Errorf("analysis.account_size must be a finite non-negative number")
	}
	if !(c.Analysis.RiskFraction >= 0 && c.Analysis.RiskFraction <= 1) {
		return fmt.Errorf("analysis.risk_fraction must be within [0, 1]")
	}
	if c.Scanner.MaxConcurrent < 0 {
		return fmt.Errorf("scanner.max_concurrent must not be negative")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
