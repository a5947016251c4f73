// Package config loads candlescope settings from YAML, .env and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"candlescope/internal/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CANDLESCOPE_FEED_SYMBOL.
const EnvPrefix = "CANDLESCOPE"

// Config holds all application configuration.
type Config struct {
	Feed struct {
		Source      string `yaml:"source" envconfig:"source"`
		Symbol      string `yaml:"symbol" envconfig:"symbol"`
		Interval    string `yaml:"interval" envconfig:"interval"`
		RestBaseURL string `yaml:"rest_base_url" envconfig:"rest_base_url"`
		WsBaseURL   string `yaml:"ws_base_url" envconfig:"ws_base_url"`
		History     int    `yaml:"history" envconfig:"history"`
	} `yaml:"feed" envconfig:"feed"`
	Chart struct {
		Platform          string  `yaml:"platform" envconfig:"platform"`
		LongPressMS       int     `yaml:"long_press_ms" envconfig:"long_press_ms"`
		MoveThresholdPx   float64 `yaml:"move_threshold_px" envconfig:"move_threshold_px"`
		HitRadiusPx       float64 `yaml:"hit_radius_px" envconfig:"hit_radius_px"`
		DeleteHitRadiusPx float64 `yaml:"delete_hit_radius_px" envconfig:"delete_hit_radius_px"`
		TapThresholdPx    float64 `yaml:"tap_threshold_px" envconfig:"tap_threshold_px"`
		TooltipWidth      float64 `yaml:"tooltip_width" envconfig:"tooltip_width"`
		TooltipHeight     float64 `yaml:"tooltip_height" envconfig:"tooltip_height"`
	} `yaml:"chart" envconfig:"chart"`
	Journal struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"sqlite_path"`
	} `yaml:"journal" envconfig:"journal"`
	Log struct {
		Level string `yaml:"level" envconfig:"level"`
		File  string `yaml:"file" envconfig:"file"`
	} `yaml:"log" envconfig:"log"`
}

// Load reads config from a YAML file, then applies .env and environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Feed.Source == "" {
		c.Feed.Source = "random"
	}
	if c.Feed.Symbol == "" {
		c.Feed.Symbol = "BTCUSDT"
	}
	if c.Feed.Interval == "" {
		c.Feed.Interval = string(model.Interval1m)
	}
	if c.Feed.History == 0 {
		c.Feed.History = 500
	}
	if c.Chart.Platform == "" {
		c.Chart.Platform = "desktop"
	}
	if c.Chart.LongPressMS == 0 {
		c.Chart.LongPressMS = 200
	}
	if c.Chart.MoveThresholdPx == 0 {
		c.Chart.MoveThresholdPx = 10
	}
	if c.Chart.HitRadiusPx == 0 {
		c.Chart.HitRadiusPx = 20
	}
	if c.Chart.DeleteHitRadiusPx == 0 {
		c.Chart.DeleteHitRadiusPx = 20
	}
	if c.Chart.TapThresholdPx == 0 {
		c.Chart.TapThresholdPx = 20
	}
	if c.Chart.TooltipWidth == 0 {
		c.Chart.TooltipWidth = 170
	}
	if c.Chart.TooltipHeight == 0 {
		c.Chart.TooltipHeight = 80
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Feed.Source) {
	case "random", "binance":
	default:
		return fmt.Errorf("feed.source %q must be random or binance", c.Feed.Source)
	}
	if strings.TrimSpace(c.Feed.Symbol) == "" {
		return fmt.Errorf("feed.symbol is required")
	}
	if _, err := model.ParseInterval(c.Feed.Interval); err != nil {
		return fmt.Errorf("feed.interval: %w", err)
	}
	if c.Feed.History <= 0 || c.Feed.History > 1000 {
		return fmt.Errorf("feed.history must be in 1..1000")
	}
	switch strings.ToLower(c.Chart.Platform) {
	case "desktop", "mobile":
	default:
		return fmt.Errorf("chart.platform %q must be desktop or mobile", c.Chart.Platform)
	}
	if c.Chart.LongPressMS <= 0 {
		return fmt.Errorf("chart.long_press_ms must be positive")
	}
	if c.Chart.MoveThresholdPx <= 0 || c.Chart.HitRadiusPx <= 0 ||
		c.Chart.DeleteHitRadiusPx <= 0 || c.Chart.TapThresholdPx <= 0 {
		return fmt.Errorf("chart pixel thresholds must be positive")
	}
	if c.Chart.TooltipWidth <= 0 || c.Chart.TooltipHeight <= 0 {
		return fmt.Errorf("chart tooltip size must be positive")
	}
	return nil
}

// LongPress returns the activation delay.
func (c *Config) LongPress() time.Duration {
	return time.Duration(c.Chart.LongPressMS) * time.Millisecond
}

// IntervalValue returns the parsed feed interval, falling back to 1m.
func (c *Config) IntervalValue() model.Interval {
	iv, err := model.ParseInterval(c.Feed.Interval)
	if err != nil {
		return model.Interval1m
	}
	return iv
}

// Mobile reports whether the chart runs with touch semantics.
func (c *Config) Mobile() bool {
	return strings.EqualFold(c.Chart.Platform, "mobile")
}
