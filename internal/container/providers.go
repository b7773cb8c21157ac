package container

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/bizplan/budget-service/internal/application/port"
	"github.com/bizplan/budget-service/internal/application/service"
	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/excel"
	httpAdapter "github.com/bizplan/budget-service/internal/interfaces/http"
	"github.com/bizplan/budget-service/internal/infrastructure/persistence/repository"
	"github.com/bizplan/budget-service/internal/infrastructure/persistence/sqlite"
	"github.com/bizplan/budget-service/pkg/database"
	"github.com/bizplan/budget-service/pkg/utils"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.TxManager
}

// ProvideDatabase opens the database, runs pending migrations and wraps the
// connection in a transaction manager.
func ProvideDatabase(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	var migrations fs.FS = database.EmbeddedMigrations()
	if cfg.MigrationsDir != "" {
		migrations = os.DirFS(cfg.MigrationsDir)
	}

	if err := database.NewMigrator(db, logger).RunMigrations(ctx, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewTxManager(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Project: repository.NewProjectRepository(db.DB, logger),
	}, nil
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	TxManager port.TransactionManager
	Budget    *BudgetConfig
	Excel     *ExcelConfig
	Logger    *zap.Logger
}

// ProvideServices creates the budget core and the application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Budget == nil || deps.Excel == nil {
		return nil, fmt.Errorf("budget and excel config are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	kv := utils.NewKVLogger(deps.Logger)

	budgetSvc := service.NewBudgetService(
		budget.NewValidator(deps.Logger.Named("validator")),
		budget.NewAdjuster(deps.Budget.Split, deps.Logger.Named("adjuster")),
		excel.NewParser(excel.ParserConfig{
			SheetName:      deps.Excel.SheetName,
			HeaderScanRows: deps.Excel.HeaderScanRows,
		}, deps.Logger.Named("excel")),
		excel.NewGenerator(deps.Budget.Split, deps.Logger.Named("excel")),
		kv,
	)

	projectSvc := service.NewProjectService(
		deps.Repos.Project,
		deps.TxManager,
		budgetSvc,
		kv,
	)

	return &ServiceBundle{
		Budget:  budgetSvc,
		Project: projectSvc,
	}, nil
}

// ServerDeps holds dependencies for creating the HTTP server.
type ServerDeps struct {
	Config   *ServerConfig
	Excel    *ExcelConfig
	Services *ServiceBundle
	Pinger   httpAdapter.Pinger
	Logger   *zap.Logger
}

// ProvideHTTPServer creates the HTTP adapter.
func ProvideHTTPServer(deps *ServerDeps) (*httpAdapter.Server, error) {
	if deps == nil || deps.Config == nil || deps.Excel == nil {
		return nil, fmt.Errorf("server config is required")
	}
	if deps.Services == nil {
		return nil, fmt.Errorf("services are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return httpAdapter.NewServer(
		httpAdapter.ServerConfig{
			Host:           deps.Config.Host,
			Port:           deps.Config.Port,
			ReadTimeout:    deps.Config.ReadTimeout,
			WriteTimeout:   deps.Config.WriteTimeout,
			MaxUploadBytes: deps.Excel.MaxUploadBytes,
		},
		deps.Services.Budget,
		deps.Services.Project,
		deps.Pinger,
		utils.NewKVLogger(deps.Logger.Named("http")),
	), nil
}
