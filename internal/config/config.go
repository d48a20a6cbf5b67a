package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"SIPAdvisor/internal/common"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Engine struct {
		LookbackWindow string  `yaml:"lookback_window" toml:"lookback_window"`
		BuyThreshold   float64 `yaml:"buy_threshold" toml:"buy_threshold"`
		HoldThreshold  float64 `yaml:"hold_threshold" toml:"hold_threshold"`
	} `yaml:"engine" toml:"engine"`
	Display struct {
		Currency       string `yaml:"currency" toml:"currency" validate:"required,len=3"`
		CurrencySymbol string `yaml:"currency_symbol" toml:"currency_symbol"`
	} `yaml:"display" toml:"display"`
	DataSource struct {
		Kind         string `yaml:"kind" toml:"kind" validate:"oneof=mfapi yahoo"`
		MFAPIBaseURL string `yaml:"mfapi_base_url" toml:"mfapi_base_url" validate:"required,url"`
		YahooBaseURL string `yaml:"yahoo_base_url" toml:"yahoo_base_url" validate:"required,url"`
		Timeout      string `yaml:"timeout" toml:"timeout"`
	} `yaml:"data_source" toml:"data_source"`
	Scan struct {
		Limit       int     `yaml:"limit" toml:"limit" validate:"gte=1"`
		Concurrency int     `yaml:"concurrency" toml:"concurrency" validate:"gte=1,lte=64"`
		MinReturn   float64 `yaml:"min_return" toml:"min_return"`
		MinPoints   int     `yaml:"min_points" toml:"min_points" validate:"gte=0"`
		Category    string  `yaml:"category" toml:"category"`
	} `yaml:"scan" toml:"scan"`
	Watchlist []string `yaml:"watchlist" toml:"watchlist"`
	Schedule  struct {
		WatchlistCron string `yaml:"watchlist_cron" toml:"watchlist_cron"`
		RunOnStart    bool   `yaml:"run_on_start" toml:"run_on_start"`
	} `yaml:"schedule" toml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token" toml:"bot_token"`
		ChatID   string `yaml:"chat_id" toml:"chat_id"`
	} `yaml:"telegram" toml:"telegram"`
	Gemini struct {
		APIKey string `yaml:"api_key" toml:"api_key"`
		Model  string `yaml:"model" toml:"model"`
	} `yaml:"gemini" toml:"gemini"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
	} `yaml:"database" toml:"database"`
	Logging common.LoggingConfig `yaml:"logging" toml:"logging"`
	Proxy   string               `yaml:"proxy" toml:"proxy" validate:"omitempty,url"`

	// buy/hold thresholds are only defaulted when absent from the file,
	// so an explicit 0 survives.
	buySet, holdSet bool
}

// Load reads config from a YAML (or, by extension, TOML) file, then applies environment variable overrides
// and defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		unmarshal := yaml.Unmarshal
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			unmarshal = toml.Unmarshal
		}
		if err := unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.buySet, cfg.holdSet = thresholdsPresent(data, unmarshal)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func thresholdsPresent(data []byte, unmarshal func([]byte, any) error) (buy, hold bool) {
	var raw struct {
		Engine map[string]any `yaml:"engine" toml:"engine"`
	}
	if err := unmarshal(data, &raw); err != nil {
		return false, false
	}
	_, buy = raw.Engine["buy_threshold"]
	_, hold = raw.Engine["hold_threshold"]
	return buy, hold
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ADVISOR_LOOKBACK_WINDOW"); v != "" {
		c.Engine.LookbackWindow = v
	}
	if v := os.Getenv("ADVISOR_BUY_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: ADVISOR_BUY_THRESHOLD: %v", model.ErrInvalidConfig, err)
		}
		c.Engine.BuyThreshold, c.buySet = f, true
	}
	if v := os.Getenv("ADVISOR_HOLD_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: ADVISOR_HOLD_THRESHOLD: %v", model.ErrInvalidConfig, err)
		}
		c.Engine.HoldThreshold, c.holdSet = f, true
	}
	if v := os.Getenv("ADVISOR_CURRENCY_SYMBOL"); v != "" {
		c.Display.CurrencySymbol = v
	}
	if v := os.Getenv("ADVISOR_DATA_SOURCE"); v != "" {
		c.DataSource.Kind = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("ADVISOR_WATCHLIST"); v != "" {
		c.Watchlist = splitList(v)
	}
	if os.Getenv("RUN_ON_START") == "true" {
		c.Schedule.RunOnStart = true
	}
	if v := os.Getenv("ADVISOR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Engine.LookbackWindow == "" {
		c.Engine.LookbackWindow = string(model.Window6M)
	}
	if !c.buySet {
		c.Engine.BuyThreshold = strategy.DefaultBuyThreshold
	}
	if !c.holdSet {
		c.Engine.HoldThreshold = strategy.DefaultHoldThreshold
	}
	if c.Display.Currency == "" {
		c.Display.Currency = "INR"
	}
	if c.DataSource.Kind == "" {
		c.DataSource.Kind = "mfapi"
	}
	if c.DataSource.MFAPIBaseURL == "" {
		c.DataSource.MFAPIBaseURL = "https://api.mfapi.in"
	}
	if c.DataSource.YahooBaseURL == "" {
		c.DataSource.YahooBaseURL = "https://query1.finance.yahoo.com"
	}
	if c.DataSource.Timeout == "" {
		c.DataSource.Timeout = "30s"
	}
	if c.Scan.Limit == 0 {
		c.Scan.Limit = 3
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 4
	}
	if c.Schedule.WatchlistCron == "" {
		c.Schedule.WatchlistCron = "0 0 19 * * 1-5"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks field constraints and the threshold ordering. It must pass
// before any computation runs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", model.ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}
	if _, err := c.Window(); err != nil {
		return fmt.Errorf("%w: engine.lookback_window: %v", model.ErrInvalidConfig, err)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.DataSource.Timeout); err != nil {
		return fmt.Errorf("%w: data_source.timeout: %v", model.ErrInvalidConfig, err)
	}
	return nil
}

// Window returns the configured default lookback window.
func (c *Config) Window() (model.LookbackWindow, error) {
	return model.ParseLookbackWindow(c.Engine.LookbackWindow)
}

// Policy builds the classification policy from the configured thresholds.
func (c *Config) Policy() (*strategy.Policy, error) {
	return strategy.NewPolicy(c.Engine.BuyThreshold, c.Engine.HoldThreshold)
}

// Timeout returns the provider HTTP timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.DataSource.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
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
