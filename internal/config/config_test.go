package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "Sheet1", cfg.Sheets.BudgetTab)
	assert.Equal(t, "Sheet2", cfg.Sheets.OperationsTab)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default with workbook is valid",
			mutate: func(c *Config) { c.Sheets.WorkbookPath = "data.xlsx" },
		},
		{
			name:   "default with dashboard id is valid",
			mutate: func(c *Config) { c.Sheets.DashboardID = "sheet-id" },
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1; c.Sheets.DashboardID = "sheet-id" },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0; c.Sheets.DashboardID = "sheet-id" },
			wantErr: "read timeout",
		},
		{
			name:    "no source configured",
			mutate:  func(c *Config) {},
			wantErr: "workbook path or a dashboard spreadsheet id",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil; c.Sheets.DashboardID = "sheet-id" },
			wantErr: "allowed origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_Validate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Sheets.DashboardID = "sheet-id"
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMerge_EnvWins(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 9090
	fileCfg.Sheets.DashboardID = "file-id"

	envCfg := *Default()
	envCfg.Sheets.DashboardID = "env-id"

	got := merge(fileCfg, envCfg)
	assert.Equal(t, "env-id", got.Sheets.DashboardID)
	// Env port default is non-zero, so it wins over the file value.
	assert.Equal(t, 8080, got.Server.Port)
}
