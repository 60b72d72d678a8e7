// Package config_test tests the config package.
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/kalshi-tsa-bot/internal/config"
)

const validYAML = `
log_level: "debug"
exchange:
  base_url: "https://api.elections.kalshi.com"
trading:
  series_ticker: "KXTSAW"
  min_edge: 6
  unit_size_contracts: 100
  yes_bid_lower: 15
  yes_bid_upper: 85
  max_net_exposure: 20000
  max_net_exposure_per_book: 5000
  bypass_up_to_date: false
  no_trade_start: "07:00"
  no_trade_end: "10:30"
  cycle_budget_seconds: 600
simulation:
  draws: 1000
  seed: 42
  workers: 4
  ar_order: 28
  diff_order: 0
  ma_order: 0
  training_cutoff: "2022-01-01"
  min_observations: 180
  yearly_fourier_order: 10
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, validYAML)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "KXTSAW", cfg.Trading.SeriesTicker)
	assert.Equal(t, 6, cfg.Trading.MinEdge)
	assert.Equal(t, 100, cfg.Trading.UnitSizeContracts)
	assert.Equal(t, int64(5000), cfg.Trading.MaxNetExposurePerBook)
	assert.False(t, bool(cfg.Trading.BypassUpToDate))
	assert.Equal(t, config.ClockTime{Hour: 7, Minute: 0}, cfg.Trading.NoTradeStart)
	assert.Equal(t, config.ClockTime{Hour: 10, Minute: 30}, cfg.Trading.NoTradeEnd)
	assert.Equal(t, 1000, cfg.Simulation.Draws)
	assert.Equal(t, 28, cfg.Simulation.AROrder)
	assert.Equal(t, time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC), cfg.Simulation.TrainingCutoff.Time())
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
trading:
  series_ticker: "KXTSAW"
  min_edge: 6
  unit_size_contracts: 100
  yes_bid_lower: 15
  yes_bid_upper: 85
  max_net_exposure: 20000
  max_net_exposure_per_book: 5000
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100000, cfg.Simulation.Draws)
	assert.Equal(t, "https://api.elections.kalshi.com", cfg.Exchange.BaseURL)
	assert.Equal(t, "https://www.tsa.gov/travel/passenger-volumes/", cfg.Scraper.URL)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("KALSHI_ACCESS_KEY", "test-access-key")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("LOG_LEVEL", "warn")

	path := writeConfigFile(t, validYAML)
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-access-key", cfg.Exchange.AccessKey)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidateRejectsZeroDraws(t *testing.T) {
	path := writeConfigFile(t, validYAML)
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	cfg.Simulation.Draws = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draws")
}

func TestValidateRejectsBadBounds(t *testing.T) {
	path := writeConfigFile(t, validYAML)
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	cfg.Trading.YesBidLower = 85
	cfg.Trading.YesBidUpper = 15
	require.Error(t, cfg.Validate())

	cfg.Trading.YesBidLower = 15
	cfg.Trading.YesBidUpper = 85
	cfg.Trading.MinEdge = 101
	require.Error(t, cfg.Validate())
}

func TestClockTimeComparisons(t *testing.T) {
	ct := config.ClockTime{Hour: 7, Minute: 0}
	at0630 := time.Date(2025, time.July, 15, 6, 30, 0, 0, time.UTC)
	at0730 := time.Date(2025, time.July, 15, 7, 30, 0, 0, time.UTC)

	assert.True(t, ct.After(at0630))
	assert.True(t, ct.Before(at0730))
	assert.Equal(t, "07:00", ct.String())
}
