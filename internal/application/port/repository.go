package port

import (
	"context"

	"github.com/bizplan/budget-service/internal/domain/entity"
)

// ProjectRepository defines persistence operations for Project
type ProjectRepository interface {
	// Create inserts a project and sets its ID
	Create(ctx context.Context, project *entity.Project) error

	// GetByID returns nil, nil when the project does not exist
	GetByID(ctx context.Context, id int64) (*entity.Project, error)

	// List returns projects newest first
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)

	// UpdateBudget replaces the claimed funding and attached budget sheet
	UpdateBudget(ctx context.Context, project *entity.Project) error

	// UpdateStatus changes the project status
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
