package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"stress-index/pkg/keywords"
	"stress-index/pkg/trends"
)

const envPrefix = "STRESS"

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
	loaded bool
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads the YAML file at configPath, or only defaults and environment
// when configPath is empty. STRESS_TRENDS_API_KEY overrides trends.api_key.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	if configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return nil, err
	}

	m.config = config
	m.loaded = true
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return fmt.Errorf("config not loaded")
	}

	if m.viper.ConfigFileUsed() != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) {
	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	setDefaults(m.viper)
}

func (m *manager) decode() (*Config, error) {
	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Keywords.Groups) == 0 {
		config.Keywords.Groups = keywords.DefaultGroups()
		if config.Keywords.Weights == nil {
			config.Keywords.Weights = keywords.DefaultWeights()
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// setDefaults registers every scalar key so environment overrides apply
// without a config file
func setDefaults(v *viper.Viper) {
	client := trends.DefaultClientConfig()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("trends.base_url", "")
	v.SetDefault("trends.api_key", "")
	v.SetDefault("trends.timeframe", trends.DefaultTimeframe)
	v.SetDefault("trends.geo", trends.DefaultGeo)
	v.SetDefault("trends.host_language", client.HostLanguage)
	v.SetDefault("trends.tz", client.TimezoneOffset)
	v.SetDefault("trends.timeout", client.Timeout)
	v.SetDefault("trends.max_retries", client.MaxRetries)
	v.SetDefault("trends.retry_delay", client.RetryDelay)
	v.SetDefault("trends.pacing", client.Pacing)
	v.SetDefault("trends.breaker_failures", client.BreakerFailures)
	v.SetDefault("trends.breaker_reset", client.BreakerReset)

	v.SetDefault("keywords.default_weight", keywords.DefaultWeight)

	v.SetDefault("export.output_dir", "./reports")
	v.SetDefault("export.history_size", 10)
	v.SetDefault("export.history_ttl", "0s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.time_format", "")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	t := config.Trends
	if t.Timeframe == "" {
		return fmt.Errorf("trends.timeframe cannot be empty")
	}
	if t.Geo == "" {
		return fmt.Errorf("trends.geo cannot be empty")
	}
	if _, err := language.Parse(t.HostLanguage); err != nil {
		return fmt.Errorf("invalid trends.host_language %q: %w", t.HostLanguage, err)
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("trends.timeout must be positive")
	}
	if t.MaxRetries < 0 {
		return fmt.Errorf("trends.max_retries cannot be negative")
	}
	if t.RetryDelay < 0 || t.Pacing < 0 {
		return fmt.Errorf("trends.retry_delay and trends.pacing cannot be negative")
	}

	if config.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir cannot be empty")
	}
	if config.Export.HistorySize < 0 {
		return fmt.Errorf("export.history_size cannot be negative")
	}

	if _, err := config.Keywords.Build(); err != nil {
		return err
	}
	return nil
}
