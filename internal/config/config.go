// Package config defines the engine's internal tuning parameters — HJB
// model parameters, feed timing, price-history depth — loaded from an
// optional YAML file with environment override. This is an operator
// surface for the embedding host; it is never exposed across the
// foreign-callable boundary.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level engine tuning configuration.
type Config struct {
	Symbol  string        `mapstructure:"symbol"`
	Quoting QuotingConfig `mapstructure:"quoting"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// QuotingConfig tunes the Avellaneda-Stoikov closed-form solver.
//
//   - Gamma: risk aversion coefficient. Higher = wider, more skewed quotes.
//   - K: order-arrival intensity. Higher = tighter quotes.
type QuotingConfig struct {
	Gamma float64 `mapstructure:"gamma"`
	K     float64 `mapstructure:"k"`
}

// FeedConfig tunes the market-data ingester.
//
//   - ReconnectWait: fixed backoff between reconnect attempts.
//   - PriceHistoryDepth: max retained ticker prices for the volatility estimator.
type FeedConfig struct {
	ReconnectWait     time.Duration `mapstructure:"reconnect_wait"`
	PriceHistoryDepth int           `mapstructure:"price_history_depth"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the /metrics Prometheus exposition server.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// Defaults returns the engine's built-in tuning defaults, used when no
// config file is present.
func Defaults() *Config {
	return &Config{
		Symbol: "BTCUSDT",
		Quoting: QuotingConfig{
			Gamma: 0.1,
			K:     1.5,
		},
		Feed: FeedConfig{
			ReconnectWait:     5 * time.Second,
			PriceHistoryDepth: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: ":9090",
		},
	}
}

// Load reads config from an optional YAML file with MMCORE_* environment
// override, falling back to Defaults() for any field absent from both.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MMCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Defaults()
	v.SetDefault("symbol", cfg.Symbol)
	v.SetDefault("quoting.gamma", cfg.Quoting.Gamma)
	v.SetDefault("quoting.k", cfg.Quoting.K)
	v.SetDefault("feed.reconnect_wait", cfg.Feed.ReconnectWait)
	v.SetDefault("feed.price_history_depth", cfg.Feed.PriceHistoryDepth)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.listen_addr", cfg.Metrics.ListenAddr)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Quoting.Gamma <= 0 {
		return fmt.Errorf("quoting.gamma must be > 0")
	}
	if c.Quoting.K <= 0 {
		return fmt.Errorf("quoting.k must be > 0")
	}
	if c.Feed.ReconnectWait <= 0 {
		return fmt.Errorf("feed.reconnect_wait must be > 0")
	}
	if c.Feed.PriceHistoryDepth <= 0 {
		return fmt.Errorf("feed.price_history_depth must be > 0")
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics.enabled")
	}
	return nil
}
