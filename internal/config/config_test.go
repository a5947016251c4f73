package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"candlescope/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candlescope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "random", cfg.Feed.Source)
	assert.Equal(t, "BTCUSDT", cfg.Feed.Symbol)
	assert.Equal(t, model.Interval1m, cfg.IntervalValue())
	assert.Equal(t, 200*time.Millisecond, cfg.LongPress())
	assert.Equal(t, 10.0, cfg.Chart.MoveThresholdPx)
	assert.Equal(t, 170.0, cfg.Chart.TooltipWidth)
	assert.Equal(t, 80.0, cfg.Chart.TooltipHeight)
	assert.False(t, cfg.Mobile())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, `
feed:
  source: binance
  symbol: ETHUSDT
  interval: 4h
chart:
  platform: mobile
  long_press_ms: 300
journal:
  sqlite_path: /tmp/j.db
`)
	t.Setenv("CANDLESCOPE_FEED_SYMBOL", "SOLUSDT")
	t.Setenv("CANDLESCOPE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "binance", cfg.Feed.Source)
	assert.Equal(t, "SOLUSDT", cfg.Feed.Symbol, "env wins over file")
	assert.Equal(t, model.Interval4h, cfg.IntervalValue())
	assert.Equal(t, 300*time.Millisecond, cfg.LongPress())
	assert.True(t, cfg.Mobile())
	assert.Equal(t, "/tmp/j.db", cfg.Journal.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "feed: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"source", func(c *Config) { c.Feed.Source = "ftx" }, "feed.source"},
		{"interval", func(c *Config) { c.Feed.Interval = "7x" }, "feed.interval"},
		{"history", func(c *Config) { c.Feed.History = 5000 }, "feed.history"},
		{"platform", func(c *Config) { c.Chart.Platform = "tv" }, "chart.platform"},
		{"threshold", func(c *Config) { c.Chart.MoveThresholdPx = -1 }, "thresholds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
