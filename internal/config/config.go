// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines the structure for all application configuration.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
	Trading    TradingConfig    `yaml:"trading"`
	Simulation SimulationConfig `yaml:"simulation"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Database   DatabaseConfig   `yaml:"-"` // Loaded from env
	Alert      AlertConfig      `yaml:"-"` // Loaded from env
}

// AlertConfig holds the operator notification settings. An empty
// webhook URL disables alerting.
type AlertConfig struct {
	WebhookURL string
}

// ExchangeConfig holds the Kalshi API endpoints and credentials. The
// access key and private key path come from the environment, never from
// the YAML file.
type ExchangeConfig struct {
	BaseURL        string `yaml:"base_url"`
	AccessKey      string `yaml:"-"`
	PrivateKeyPath string `yaml:"-"`
}

// TradingConfig holds the quoting and risk parameters.
type TradingConfig struct {
	SeriesTicker          string    `yaml:"series_ticker"` // e.g. KXTSAW
	MinEdge               int       `yaml:"min_edge"`
	UnitSizeContracts     int       `yaml:"unit_size_contracts"`
	YesBidLower           int       `yaml:"yes_bid_lower"`
	YesBidUpper           int       `yaml:"yes_bid_upper"`
	MaxNetExposure        int64     `yaml:"max_net_exposure"`          // cents, event-wide
	MaxNetExposurePerBook int64     `yaml:"max_net_exposure_per_book"` // cents, per market
	BypassUpToDate        FlexBool  `yaml:"bypass_up_to_date"`
	NoTradeStart          ClockTime `yaml:"no_trade_start"`
	NoTradeEnd            ClockTime `yaml:"no_trade_end"`
	CycleBudgetSeconds    int       `yaml:"cycle_budget_seconds"`
}

// SimulationConfig holds the forecast and Monte Carlo parameters.
type SimulationConfig struct {
	Draws              int   `yaml:"draws"`
	Seed               int64 `yaml:"seed"`
	Workers            int   `yaml:"workers"`
	AROrder            int   `yaml:"ar_order"`
	DiffOrder          int   `yaml:"diff_order"`
	MAOrder            int   `yaml:"ma_order"`
	TrainingCutoff     Date  `yaml:"training_cutoff"` // drop history before this date
	MinObservations    int   `yaml:"min_observations"`
	YearlyFourierOrder int   `yaml:"yearly_fourier_order"`
}

// ScraperConfig holds the source page for the raw series.
type ScraperConfig struct {
	URL string `yaml:"url"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// ConnString returns a pgx-compatible connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

// LoadConfig loads configuration from the specified YAML file path and
// environment variables, applying defaults and validating the result.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		LogLevel: "info",
		Exchange: ExchangeConfig{
			BaseURL: "https://api.elections.kalshi.com",
		},
		Simulation: SimulationConfig{
			Draws:              100000,
			Workers:            4,
			AROrder:            28,
			MinObservations:    180,
			YearlyFourierOrder: 10,
			TrainingCutoff:     Date(time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)),
		},
		Scraper: ScraperConfig{
			URL: "https://www.tsa.gov/travel/passenger-volumes/",
		},
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	// Secrets and DB settings come from the environment only.
	cfg.Exchange.AccessKey = os.Getenv("KALSHI_ACCESS_KEY")
	cfg.Exchange.PrivateKeyPath = os.Getenv("KALSHI_PRIVATE_KEY_PATH")
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg.Database = DatabaseConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	cfg.Alert = AlertConfig{WebhookURL: os.Getenv("ALERT_WEBHOOK_URL")}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values that would make a
// cycle unrunnable. A zero-draw simulation is rejected here so the fair
// value estimator never sees an empty distribution.
func (c *Config) Validate() error {
	if c.Trading.SeriesTicker == "" {
		return fmt.Errorf("trading.series_ticker must be set")
	}
	if c.Trading.MinEdge < 0 || c.Trading.MinEdge > 100 {
		return fmt.Errorf("trading.min_edge must be in [0,100], got %d", c.Trading.MinEdge)
	}
	if c.Trading.UnitSizeContracts <= 0 {
		return fmt.Errorf("trading.unit_size_contracts must be positive, got %d", c.Trading.UnitSizeContracts)
	}
	if c.Trading.YesBidLower < 0 || c.Trading.YesBidUpper > 100 ||
		c.Trading.YesBidLower >= c.Trading.YesBidUpper {
		return fmt.Errorf("trading yes_bid bounds must satisfy 0 <= lower < upper <= 100, got [%d,%d]",
			c.Trading.YesBidLower, c.Trading.YesBidUpper)
	}
	if c.Trading.MaxNetExposure <= 0 || c.Trading.MaxNetExposurePerBook <= 0 {
		return fmt.Errorf("trading exposure limits must be positive")
	}
	if c.Simulation.Draws < 1 {
		return fmt.Errorf("simulation.draws must be at least 1, got %d", c.Simulation.Draws)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation.workers must be at least 1, got %d", c.Simulation.Workers)
	}
	if c.Simulation.AROrder < 0 || c.Simulation.DiffOrder < 0 || c.Simulation.MAOrder < 0 {
		return fmt.Errorf("simulation ARMA orders must be non-negative")
	}
	if c.Simulation.AROrder == 0 && c.Simulation.MAOrder == 0 {
		return fmt.Errorf("simulation requires ar_order > 0 or ma_order > 0")
	}
	if c.Simulation.MinObservations < 14 {
		return fmt.Errorf("simulation.min_observations must be at least 14, got %d", c.Simulation.MinObservations)
	}
	return nil
}
