// Package container provides dependency injection and lifecycle management
// for the budget service following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/bizplan/budget-service/internal/budget"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Server configuration
	Server ServerConfig

	// Budget reconciliation configuration
	Budget BudgetConfig

	// Spreadsheet import configuration
	Excel ExcelConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir replaces the embedded migrations when set
	MigrationsDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BudgetConfig holds the funding split used by the adjuster.
type BudgetConfig struct {
	Split budget.FundingSplit
}

// ExcelConfig holds budget sheet import settings.
type ExcelConfig struct {
	SheetName      string
	HeaderScanRows int
	MaxUploadBytes int64
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive")
	}
	if c.Budget.Split.ProvincialRatio.IsZero() && c.Budget.Split.CityRatio.IsZero() {
		return fmt.Errorf("budget funding split is required")
	}
	if c.Excel.MaxUploadBytes <= 0 {
		return fmt.Errorf("excel max upload bytes must be positive")
	}
	return nil
}
