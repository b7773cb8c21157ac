package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bizplan/budget-service/internal/application/port"
	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/domain/entity"
)

// ProjectDraft is the project overview form with its claimed funding and
// optional budget sheet
type ProjectDraft struct {
	CommunityName   string
	ProjectName     string
	ProjectPeriod   string
	ProjectLocation string
	Funding         budget.Funding
	Sheet           *budget.BudgetSheet
}

// StoredAdjustment is the result of reconciling a project's stored sheet
type StoredAdjustment struct {
	Project    *entity.Project
	Sheet      *budget.BudgetSheet
	Adjustment *budget.Adjustment
}

// Completion is the outcome of finalizing a project. Completed is false when
// the stored sheet does not reconcile with the claimed funding.
type Completion struct {
	Project    *entity.Project
	Validation budget.ValidationResult
	Completed  bool
}

// ProjectService manages project drafts and their budget sheets
type ProjectService interface {
	SaveDraft(ctx context.Context, draft ProjectDraft) (*entity.Project, error)
	Create(ctx context.Context, draft ProjectDraft) (*entity.Project, error)
	Get(ctx context.Context, id int64) (*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
	Sheet(ctx context.Context, id int64) (*budget.BudgetSheet, error)
	AdjustStoredSheet(ctx context.Context, id int64) (*StoredAdjustment, error)
	ExportSheet(ctx context.Context, id int64, w io.Writer) (*entity.Project, error)
	Complete(ctx context.Context, id int64) (*Completion, error)
}

type projectServiceImpl struct {
	projectRepo   port.ProjectRepository
	txManager     port.TransactionManager
	budgetService BudgetService
	logger        Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo port.ProjectRepository,
	txManager port.TransactionManager,
	budgetService BudgetService,
	logger Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo:   projectRepo,
		txManager:     txManager,
		budgetService: budgetService,
		logger:        logger,
	}
}

// SaveDraft stores the overview as a temporary draft
func (s *projectServiceImpl) SaveDraft(ctx context.Context, draft ProjectDraft) (*entity.Project, error) {
	return s.store(ctx, draft, entity.ProjectStatusDraft)
}

// Create stores the overview as a project being written
func (s *projectServiceImpl) Create(ctx context.Context, draft ProjectDraft) (*entity.Project, error) {
	return s.store(ctx, draft, entity.ProjectStatusInProgress)
}

func (s *projectServiceImpl) store(ctx context.Context, draft ProjectDraft, status string) (*entity.Project, error) {
	project := &entity.Project{
		CommunityName:   draft.CommunityName,
		ProjectName:     draft.ProjectName,
		ProjectPeriod:   draft.ProjectPeriod,
		ProjectLocation: draft.ProjectLocation,
		TotalBudget:     draft.Funding.Total,
		ProvincialFund:  draft.Funding.Provincial,
		CityFund:        draft.Funding.City,
		SelfFund:        draft.Funding.Self,
		Status:          status,
	}

	if draft.Sheet != nil {
		details, err := encodeSheet(draft.Sheet)
		if err != nil {
			return nil, err
		}
		project.BudgetDetails = details
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.logger.Error("Failed to store project", "error", err, "status", status)
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("Project stored", "project_id", project.ID, "status", status)
	return project, nil
}

// Get returns a project or ErrProjectNotFound
func (s *projectServiceImpl) Get(ctx context.Context, id int64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get project", "error", err, "project_id", id)
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	return project, nil
}

// List returns projects newest first
func (s *projectServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	projects, err := s.projectRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list projects", "error", err)
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Sheet decodes the project's stored budget sheet
func (s *projectServiceImpl) Sheet(ctx context.Context, id int64) (*budget.BudgetSheet, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeSheet(project)
}

// AdjustStoredSheet reconciles the stored sheet with the project's claimed
// total and persists the adjusted items and aggregates
func (s *projectServiceImpl) AdjustStoredSheet(ctx context.Context, id int64) (*StoredAdjustment, error) {
	var out *StoredAdjustment

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		project, err := s.Get(txCtx, id)
		if err != nil {
			return err
		}

		sheet, err := decodeSheet(project)
		if err != nil {
			return err
		}

		adj, err := s.budgetService.AutoAdjust(project.TotalBudget, sheet.Items)
		if err != nil {
			return err
		}

		adjusted := &budget.BudgetSheet{Items: adj.Items}
		if err := adjusted.Recalculate(); err != nil {
			return fmt.Errorf("recalculate sheet: %w", err)
		}

		details, err := encodeSheet(adjusted)
		if err != nil {
			return err
		}
		project.BudgetDetails = details

		if err := s.projectRepo.UpdateBudget(txCtx, project); err != nil {
			return fmt.Errorf("update project budget: %w", err)
		}

		out = &StoredAdjustment{
			Project:    project,
			Sheet:      adjusted,
			Adjustment: adj,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to adjust stored sheet", "error", err, "project_id", id)
		return nil, err
	}

	s.logger.Info("Stored sheet adjusted",
		"project_id", id,
		"adjusted", out.Adjustment.Adjusted,
		"difference", out.Adjustment.Difference)
	return out, nil
}

// ExportSheet writes the stored sheet as xlsx and returns the project
func (s *projectServiceImpl) ExportSheet(ctx context.Context, id int64, w io.Writer) (*entity.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sheet, err := decodeSheet(project)
	if err != nil {
		return nil, err
	}

	if err := s.budgetService.ExportSheet(w, sheet); err != nil {
		return nil, err
	}
	return project, nil
}

// Complete marks the project finalized once its stored sheet matches the
// claimed funding
func (s *projectServiceImpl) Complete(ctx context.Context, id int64) (*Completion, error) {
	var out *Completion

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		project, err := s.Get(txCtx, id)
		if err != nil {
			return err
		}

		sheet, err := decodeSheet(project)
		if err != nil {
			return err
		}

		result := s.budgetService.ValidateWithSheet(project.Funding(), sheet.Totals())
		out = &Completion{Project: project, Validation: result}
		if !result.Valid {
			return nil
		}

		if err := s.projectRepo.UpdateStatus(txCtx, id, entity.ProjectStatusCompleted); err != nil {
			return fmt.Errorf("update project status: %w", err)
		}
		project.Status = entity.ProjectStatusCompleted
		out.Completed = true
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to complete project", "error", err, "project_id", id)
		return nil, err
	}

	s.logger.Info("Project completion checked", "project_id", id, "completed", out.Completed)
	return out, nil
}

func encodeSheet(sheet *budget.BudgetSheet) (string, error) {
	data, err := json.Marshal(sheet)
	if err != nil {
		return "", fmt.Errorf("encode budget details: %w", err)
	}
	return string(data), nil
}

func decodeSheet(project *entity.Project) (*budget.BudgetSheet, error) {
	if !project.HasBudgetDetails() {
		return nil, fmt.Errorf("%w: project %d", ErrNoBudgetDetails, project.ID)
	}

	var sheet budget.BudgetSheet
	if err := json.Unmarshal([]byte(project.BudgetDetails), &sheet); err != nil {
		return nil, fmt.Errorf("decode budget details: %w", err)
	}
	return &sheet, nil
}
