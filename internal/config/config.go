package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Sheets   SheetsConfig   `yaml:"sheets" envconfig:"SHEETS"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// SheetsConfig identifies the source spreadsheets and how to reach them.
// When WorkbookPath is set the service reads a local Excel workbook instead
// of the Google Sheets API, which is the offline/dev mode.
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE" default:"credentials.json"`
	CredentialsJSON string `yaml:"-" envconfig:"CREDENTIALS_JSON"`
	WorkbookPath    string `yaml:"workbook_path" envconfig:"WORKBOOK_PATH"`

	DashboardID  string `yaml:"dashboard_id" envconfig:"DASHBOARD_ID"`
	DashboardTab string `yaml:"dashboard_tab" envconfig:"DASHBOARD_TAB"`

	FinanceID     string `yaml:"finance_id" envconfig:"FINANCE_ID"`
	BudgetTab     string `yaml:"budget_tab" envconfig:"BUDGET_TAB" default:"Sheet1"`
	OperationsTab string `yaml:"operations_tab" envconfig:"OPERATIONS_TAB" default:"Sheet2"`
}

// CacheConfig controls the TTL response cache in front of the pipeline.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl" envconfig:"TTL" default:"5m"`
	MaxEntries int           `yaml:"max_entries" envconfig:"MAX_ENTRIES" default:"128"`
}

// Load loads configuration from environment variables and, when present, a
// config.yaml file. Environment variables take precedence.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SPORT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path := configFilePath(); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge merges file config with env config; env values win where set.
func merge(fileCfg, envCfg Config) Config {
	if envCfg.Server.Port == 0 {
		envCfg.Server.Port = fileCfg.Server.Port
	}
	if envCfg.Sheets.DashboardID == "" {
		envCfg.Sheets.DashboardID = fileCfg.Sheets.DashboardID
	}
	if envCfg.Sheets.FinanceID == "" {
		envCfg.Sheets.FinanceID = fileCfg.Sheets.FinanceID
	}
	if envCfg.Sheets.WorkbookPath == "" {
		envCfg.Sheets.WorkbookPath = fileCfg.Sheets.WorkbookPath
	}
	if envCfg.Cache.TTL == 0 {
		envCfg.Cache.TTL = fileCfg.Cache.TTL
	}
	return envCfg
}

// validate checks the configuration for obviously broken values and applies
// the logging invariants (JSON format, dual output).
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Sheets.WorkbookPath == "" && c.Sheets.DashboardID == "" {
		return fmt.Errorf("either a workbook path or a dashboard spreadsheet id is required")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}

	return nil
}

// configFilePath returns the first config file found in common locations, or
// empty when only env vars apply.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Default returns a default configuration suitable for local development with
// a workbook file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Sheets: SheetsConfig{
			CredentialsFile: "credentials.json",
			BudgetTab:       "Sheet1",
			OperationsTab:   "Sheet2",
		},
		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 128,
		},
	}
}
