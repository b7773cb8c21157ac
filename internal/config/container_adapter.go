package config

import (
	"github.com/bizplan/budget-service/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() (*container.Config, error) {
	split, err := c.FundingSplit()
	if err != nil {
		return nil, err
	}

	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
		Budget: container.BudgetConfig{
			Split: split,
		},
		Excel: container.ExcelConfig{
			SheetName:      c.Excel.SheetName,
			HeaderScanRows: c.Excel.HeaderScanRows,
			MaxUploadBytes: c.Excel.MaxUploadBytes,
		},
	}, nil
}
