package config

import (
	"time"

	"stress-index/pkg/aggregator"
	"stress-index/pkg/keywords"
	"stress-index/pkg/logger"
	"stress-index/pkg/trends"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Trends   TrendsConfig   `mapstructure:"trends"`
	Keywords KeywordsConfig `mapstructure:"keywords"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   logger.Config  `mapstructure:"logger"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type TrendsConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	Timeframe       string        `mapstructure:"timeframe"`
	Geo             string        `mapstructure:"geo"`
	HostLanguage    string        `mapstructure:"host_language"`
	TimezoneOffset  int           `mapstructure:"tz"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	Pacing          time.Duration `mapstructure:"pacing"`
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerReset    time.Duration `mapstructure:"breaker_reset"`
}

// KeywordsConfig falls back to the reference groups and weights when no
// groups are configured
type KeywordsConfig struct {
	Groups        []keywords.Group   `mapstructure:"groups"`
	Weights       map[string]float64 `mapstructure:"weights"`
	DefaultWeight float64            `mapstructure:"default_weight"`
}

type ExportConfig struct {
	OutputDir   string        `mapstructure:"output_dir"`
	HistorySize int           `mapstructure:"history_size"`
	HistoryTTL  time.Duration `mapstructure:"history_ttl"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}

// ClientConfig maps the trends section onto the HTTP adapter settings
func (t TrendsConfig) ClientConfig() trends.ClientConfig {
	return trends.ClientConfig{
		BaseURL:         t.BaseURL,
		APIKey:          t.APIKey,
		HostLanguage:    t.HostLanguage,
		TimezoneOffset:  t.TimezoneOffset,
		Timeout:         t.Timeout,
		MaxRetries:      t.MaxRetries,
		RetryDelay:      t.RetryDelay,
		Pacing:          t.Pacing,
		BreakerFailures: t.BreakerFailures,
		BreakerReset:    t.BreakerReset,
	}
}

func (t TrendsConfig) Options() aggregator.Options {
	return aggregator.Options{Timeframe: t.Timeframe, Geo: t.Geo}
}

// Build validates the section into an immutable keyword configuration
func (k KeywordsConfig) Build() (*keywords.Config, error) {
	return keywords.New(k.Groups, k.Weights, k.DefaultWeight)
}
