package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bizplan/budget-service/internal/budget"
)

// EnvPrefix prefixes every environment override, e.g. BUDGET_SERVER_PORT
const EnvPrefix = "BUDGET"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Budget   BudgetConfig   `mapstructure:"budget"`
	Excel    ExcelConfig    `mapstructure:"excel"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// MigrationsDir overrides the migrations compiled into the binary
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// BudgetConfig holds the funding split applied to adjusted line items
type BudgetConfig struct {
	ProvincialRatio float64 `mapstructure:"provincial_ratio"`
	CityRatio       float64 `mapstructure:"city_ratio"`
}

// ExcelConfig holds budget sheet import settings
type ExcelConfig struct {
	SheetName      string `mapstructure:"sheet_name"`
	HeaderScanRows int    `mapstructure:"header_scan_rows"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// Load loads configuration from file and environment variables. An empty
// configPath uses defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/budget.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Budget defaults
	v.SetDefault("budget.provincial_ratio", 0.3)
	v.SetDefault("budget.city_ratio", 0.7)

	// Excel defaults
	v.SetDefault("excel.sheet_name", "")
	v.SetDefault("excel.header_scan_rows", 6)
	v.SetDefault("excel.max_upload_bytes", 10<<20)
}

// bindEnvVars binds the short-form environment variables
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"database.path": "BUDGET_DB_PATH",
		"server.port":   "BUDGET_SERVER_PORT",
		"logger.level":  "BUDGET_LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	if _, err := c.FundingSplit(); err != nil {
		return fmt.Errorf("budget ratios: %w", err)
	}

	if c.Excel.HeaderScanRows <= 0 {
		return fmt.Errorf("excel.header_scan_rows must be positive")
	}
	if c.Excel.MaxUploadBytes <= 0 {
		return fmt.Errorf("excel.max_upload_bytes must be positive")
	}

	return nil
}

// FundingSplit returns the configured provincial/city split
func (c *Config) FundingSplit() (budget.FundingSplit, error) {
	return budget.NewFundingSplit(c.Budget.ProvincialRatio, c.Budget.CityRatio)
}
