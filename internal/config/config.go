// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	CSFloat CSFloatConfig `yaml:"csfloat"`
	History HistoryConfig `yaml:"history"`
	Alerts  AlertsConfig  `yaml:"alerts"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// CSFloatConfig defines API client settings.
type CSFloatConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	RequestInterval   time.Duration `yaml:"request_interval"`
	Timeout           time.Duration `yaml:"timeout"`
	Proxies           []string      `yaml:"proxies"`
	LowQuotaThreshold int64         `yaml:"low_quota_threshold"`
}

// HistoryConfig defines the sale history watch.
type HistoryConfig struct {
	Interval        time.Duration `yaml:"interval"`
	MarketHashNames []string      `yaml:"market_hash_names"`
	Concurrency     int           `yaml:"concurrency"`
	Breaker         BreakerConfig `yaml:"breaker"`
}

// BreakerConfig defines when the sale history breaker opens.
type BreakerConfig struct {
	Threshold int           `yaml:"threshold"` // default: 10
	LowWater  int64         `yaml:"low_water"` // default: 5
	Cooldown  time.Duration `yaml:"cooldown"`  // default: 1h
}

// AlertsConfig defines price alerts raised by the watch daemon.
type AlertsConfig struct {
	DiscordWebhookURL string `yaml:"discord_webhook_url"`
	// Below maps a market hash name to a price in major units, e.g. "12.50".
	// A sale at or under the price raises an alert.
	Below map[string]string `yaml:"below"`
}

// Thresholds parses Below into minor-unit prices.
func (a *AlertsConfig) Thresholds() (map[string]domain.Cents, error) {
	out := make(map[string]domain.Cents, len(a.Below))
	for name, v := range a.Below {
		c, err := domain.ParseCents(v)
		if err != nil {
			return nil, fmt.Errorf("alerts.below[%q]: %w", name, err)
		}
		out[name] = c
	}
	return out, nil
}

// ServerConfig defines the watch daemon's HTTP listener.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// Defaults returns a configuration with every default applied and no API key.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyCSFloatDefaults(&cfg.CSFloat)
	applyHistoryDefaults(&cfg.History)
	applyServerDefaults(&cfg.Server)
	applyLoggingDefaults(&cfg.Logging)
}

func applyCSFloatDefaults(c *CSFloatConfig) {
	if c.BaseURL == "" {
		c.BaseURL = "https://csfloat.com/api/v1"
	}
	if c.RequestInterval == 0 {
		c.RequestInterval = time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.LowQuotaThreshold == 0 {
		c.LowQuotaThreshold = 5
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.Interval == 0 {
		h.Interval = 10 * time.Minute
	}
	if h.Concurrency == 0 {
		h.Concurrency = 4
	}
	if h.Breaker.Threshold == 0 {
		h.Breaker.Threshold = 10
	}
	if h.Breaker.LowWater == 0 {
		h.Breaker.LowWater = 5
	}
	if h.Breaker.Cooldown == 0 {
		h.Breaker.Cooldown = time.Hour
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 9095
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

func validate(cfg *Config) error {
	var errs []error

	if cfg.CSFloat.APIKey == "" {
		errs = append(errs, fmt.Errorf("csfloat.api_key is required"))
	}
	if u, err := url.Parse(cfg.CSFloat.BaseURL); err != nil ||
		(u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("csfloat.base_url must be an http(s) URL (got %q)", cfg.CSFloat.BaseURL))
	}
	if cfg.CSFloat.RequestInterval < 0 {
		errs = append(errs, fmt.Errorf("csfloat.request_interval must not be negative"))
	}
	if cfg.CSFloat.Timeout < 0 {
		errs = append(errs, fmt.Errorf("csfloat.timeout must not be negative"))
	}

	if cfg.History.Interval < time.Second {
		errs = append(errs, fmt.Errorf("history.interval must be at least 1s (got %s)", cfg.History.Interval))
	}
	if cfg.History.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("history.concurrency must not be negative"))
	}
	if cfg.History.Breaker.Threshold < 0 {
		errs = append(errs, fmt.Errorf("history.breaker.threshold must not be negative"))
	}
	if cfg.History.Breaker.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("history.breaker.cooldown must not be negative"))
	}

	if _, err := cfg.Alerts.Thresholds(); err != nil {
		errs = append(errs, err)
	}
	if u := cfg.Alerts.DiscordWebhookURL; u != "" &&
		!strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		errs = append(errs, fmt.Errorf("alerts.discord_webhook_url must be an http(s) URL"))
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	if !slices.Contains(validLevels, cfg.Logging.Level) {
		errs = append(errs, fmt.Errorf(
			"logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level,
		))
	}
	if !slices.Contains(validFormats, cfg.Logging.Format) {
		errs = append(errs, fmt.Errorf(
			"logging.format must be one of: text, json (got %q)", cfg.Logging.Format,
		))
	}

	return errors.Join(errs...)
}
