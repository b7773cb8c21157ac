package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bizplan/budget-service/internal/application/port"
	"github.com/bizplan/budget-service/internal/domain/entity"
	"github.com/bizplan/budget-service/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ProjectRepository implements port.ProjectRepository
type ProjectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB, logger *zap.Logger) port.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

const projectColumns = `
	id, community_name, project_name, project_period, project_location,
	total_budget, provincial_fund, city_fund, self_fund,
	budget_details, status, created_at, updated_at
`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	query := `
		INSERT INTO projects (
			community_name, project_name, project_period, project_location,
			total_budget, provincial_fund, city_fund, self_fund,
			budget_details, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		project.CommunityName,
		project.ProjectName,
		project.ProjectPeriod,
		project.ProjectLocation,
		project.TotalBudget,
		project.ProvincialFund,
		project.CityFund,
		project.SelfFund,
		project.BudgetDetails,
		project.Status,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	project, err := scanProject(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get project by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// List retrieves projects, newest first
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateBudget replaces funding fields and the budget sheet
func (r *ProjectRepository) UpdateBudget(ctx context.Context, project *entity.Project) error {
	query := `
		UPDATE projects
		SET total_budget = ?, provincial_fund = ?, city_fund = ?, self_fund = ?,
			budget_details = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		project.TotalBudget,
		project.ProvincialFund,
		project.CityFund,
		project.SelfFund,
		project.BudgetDetails,
		now,
		project.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update project budget", zap.Int64("id", project.ID), zap.Error(err))
		return fmt.Errorf("failed to update project budget: %w", err)
	}

	if err := requireAffected(result, project.ID); err != nil {
		return err
	}

	project.UpdatedAt = now
	return nil
}

// UpdateStatus updates project status
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update project status", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update project status: %w", err)
	}

	return requireAffected(result, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(
		&p.ID,
		&p.CommunityName,
		&p.ProjectName,
		&p.ProjectPeriod,
		&p.ProjectLocation,
		&p.TotalBudget,
		&p.ProvincialFund,
		&p.CityFund,
		&p.SelfFund,
		&p.BudgetDetails,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func requireAffected(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %d not found", id)
	}
	return nil
}

// getExecutor returns the transaction carried by ctx, or the database
func (r *ProjectRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFromContext(ctx, r.db)
}

// Verify interface compliance
var _ port.ProjectRepository = (*ProjectRepository)(nil)
