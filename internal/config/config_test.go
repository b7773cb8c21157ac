package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "data/budget.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 0.3, cfg.Budget.ProvincialRatio)
	assert.Equal(t, 0.7, cfg.Budget.CityRatio)
	assert.Equal(t, 6, cfg.Excel.HeaderScanRows)
	assert.Equal(t, int64(10<<20), cfg.Excel.MaxUploadBytes)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
database:
  path: /tmp/from-file.db
logger:
  level: debug
  format: console
budget:
  provincial_ratio: 0.5
  city_ratio: 0.5
excel:
  sheet_name: 사업비
`)

	t.Setenv("BUDGET_DB_PATH", "/tmp/from-env.db")
	t.Setenv("BUDGET_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "사업비", cfg.Excel.SheetName)

	split, err := cfg.FundingSplit()
	require.NoError(t, err)
	assert.Equal(t, "0.5", split.ProvincialRatio.String())
}

func TestLoad_LongFormEnv(t *testing.T) {
	t.Setenv("BUDGET_SERVER_PORT", "7000")
	t.Setenv("BUDGET_EXCEL_HEADER_SCAN_ROWS", "12")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 12, cfg.Excel.HeaderScanRows)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"no database path", func(c *Config) { c.Database.Path = "" }},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }},
		{"ratios above one", func(c *Config) { c.Budget.ProvincialRatio = 0.6 }},
		{"negative ratio", func(c *Config) { c.Budget.CityRatio = -0.1 }},
		{"no header scan", func(c *Config) { c.Excel.HeaderScanRows = 0 }},
		{"no upload limit", func(c *Config) { c.Excel.MaxUploadBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
