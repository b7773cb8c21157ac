package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProjectService(repo *mockProjectRepo, writer SheetWriter) (ProjectService, *mockTxManager) {
	tx := &mockTxManager{}
	return NewProjectService(repo, tx, newTestBudgetService(nil, writer), &mockLogger{}), tx
}

func testDraft() ProjectDraft {
	sheet := &budget.BudgetSheet{
		Items: []budget.BudgetLineItem{
			{SubProject: "마을축제", BudgetItem: "홍보비", Amount: 3000000, ProvincialFund: 900000, CityFund: 2100000},
			{SubProject: "마을축제", BudgetItem: "인쇄비", CalculationBasis: "1000원 × 2000장", Amount: 2000000, ProvincialFund: 600000, CityFund: 1400000, SelfFund: 70},
		},
	}
	_ = sheet.Recalculate()

	return ProjectDraft{
		CommunityName: "행복마을",
		ProjectName:   "마을 축제",
		Funding:       budget.Funding{Total: 4500000, Provincial: 1350000, City: 3150000},
		Sheet:         sheet,
	}
}

func TestProjectService_SaveDraftAndCreate(t *testing.T) {
	ctx := context.Background()
	repo := newMockProjectRepo()
	svc, _ := newTestProjectService(repo, nil)

	draft, err := svc.SaveDraft(ctx, testDraft())
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusDraft, draft.Status)
	assert.True(t, draft.HasBudgetDetails())
	assert.Equal(t, int64(4500000), draft.TotalBudget)

	created, err := svc.Create(ctx, ProjectDraft{ProjectName: "빈 사업"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusInProgress, created.Status)
	assert.False(t, created.HasBudgetDetails())

	projects, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, created.ID, projects[0].ID)
}

func TestProjectService_CreateFailure(t *testing.T) {
	repo := newMockProjectRepo()
	repo.createErr = errors.New("database is locked")
	svc, _ := newTestProjectService(repo, nil)

	_, err := svc.SaveDraft(context.Background(), testDraft())
	assert.ErrorIs(t, err, repo.createErr)
}

func TestProjectService_GetAndSheet(t *testing.T) {
	ctx := context.Background()
	repo := newMockProjectRepo()
	svc, _ := newTestProjectService(repo, nil)

	_, err := svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	saved, err := svc.SaveDraft(ctx, testDraft())
	require.NoError(t, err)

	sheet, err := svc.Sheet(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, sheet.Items, 2)
	assert.Equal(t, int64(5000000), sheet.TotalAmount)

	bare, err := svc.Create(ctx, ProjectDraft{})
	require.NoError(t, err)
	_, err = svc.Sheet(ctx, bare.ID)
	assert.ErrorIs(t, err, ErrNoBudgetDetails)
}

func TestProjectService_AdjustStoredSheet(t *testing.T) {
	ctx := context.Background()
	repo := newMockProjectRepo()
	svc, tx := newTestProjectService(repo, nil)

	saved, err := svc.SaveDraft(ctx, testDraft())
	require.NoError(t, err)

	result, err := svc.AdjustStoredSheet(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)

	assert.True(t, result.Adjustment.Adjusted)
	assert.Equal(t, int64(500000), result.Adjustment.Difference)

	last := result.Sheet.Items[1]
	assert.Equal(t, int64(1500000), last.Amount)
	assert.Equal(t, "1000원 × 1500장", last.CalculationBasis)
	assert.Equal(t, int64(450000), last.ProvincialFund)
	assert.Equal(t, int64(1050000), last.CityFund)
	assert.Equal(t, int64(70), last.SelfFund)

	assert.Equal(t, int64(4500000), result.Sheet.TotalAmount)
	assert.Equal(t, 2, result.Sheet.ItemCount)

	stored, err := svc.Sheet(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Sheet.Items, stored.Items)
	assert.Equal(t, int64(4500000), stored.TotalAmount)
}

func TestProjectService_AdjustStoredSheet_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing project", func(t *testing.T) {
		svc, _ := newTestProjectService(newMockProjectRepo(), nil)
		_, err := svc.AdjustStoredSheet(ctx, 9)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("no sheet", func(t *testing.T) {
		svc, _ := newTestProjectService(newMockProjectRepo(), nil)
		p, err := svc.Create(ctx, ProjectDraft{})
		require.NoError(t, err)
		_, err = svc.AdjustStoredSheet(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNoBudgetDetails)
	})

	t.Run("empty sheet", func(t *testing.T) {
		svc, _ := newTestProjectService(newMockProjectRepo(), nil)
		p, err := svc.Create(ctx, ProjectDraft{Sheet: &budget.BudgetSheet{}})
		require.NoError(t, err)
		_, err = svc.AdjustStoredSheet(ctx, p.ID)
		assert.ErrorIs(t, err, budget.ErrNoItems)
	})

	t.Run("update failure", func(t *testing.T) {
		repo := newMockProjectRepo()
		svc, _ := newTestProjectService(repo, nil)
		p, err := svc.SaveDraft(ctx, testDraft())
		require.NoError(t, err)

		repo.updateErr = errors.New("disk I/O error")
		_, err = svc.AdjustStoredSheet(ctx, p.ID)
		assert.ErrorIs(t, err, repo.updateErr)
	})
}

func TestProjectService_ExportSheet(t *testing.T) {
	ctx := context.Background()
	repo := newMockProjectRepo()
	writer := &mockSheetWriter{}
	svc, _ := newTestProjectService(repo, writer)

	saved, err := svc.SaveDraft(ctx, testDraft())
	require.NoError(t, err)

	var buf bytes.Buffer
	project, err := svc.ExportSheet(ctx, saved.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, "마을 축제", project.ProjectName)
	assert.Equal(t, "xlsx", buf.String())
	require.NotNil(t, writer.written)
	assert.Len(t, writer.written.Items, 2)
}

func TestProjectService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("matching sheet", func(t *testing.T) {
		repo := newMockProjectRepo()
		svc, tx := newTestProjectService(repo, nil)

		sheet := &budget.BudgetSheet{Items: []budget.BudgetLineItem{
			{SubProject: "교육", BudgetItem: "강사비", Amount: 1000, ProvincialFund: 300, CityFund: 700},
		}}
		require.NoError(t, sheet.Recalculate())
		p, err := svc.Create(ctx, ProjectDraft{
			Funding: budget.Funding{Total: 1000, Provincial: 300, City: 700},
			Sheet:   sheet,
		})
		require.NoError(t, err)

		done, err := svc.Complete(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, tx.calls)
		assert.True(t, done.Completed)
		assert.True(t, done.Validation.Valid)
		assert.Equal(t, entity.ProjectStatusCompleted, done.Project.Status)

		stored, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ProjectStatusCompleted, stored.Status)
	})

	t.Run("mismatched sheet stays open", func(t *testing.T) {
		repo := newMockProjectRepo()
		svc, _ := newTestProjectService(repo, nil)
		p, err := svc.SaveDraft(ctx, testDraft())
		require.NoError(t, err)

		done, err := svc.Complete(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, done.Completed)
		assert.False(t, done.Validation.Valid)
		require.NotNil(t, done.Validation.Difference)
		assert.Equal(t, int64(-500000), *done.Validation.Difference)

		stored, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ProjectStatusDraft, stored.Status)
	})

	t.Run("no sheet", func(t *testing.T) {
		svc, _ := newTestProjectService(newMockProjectRepo(), nil)
		p, err := svc.Create(ctx, ProjectDraft{})
		require.NoError(t, err)
		_, err = svc.Complete(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNoBudgetDetails)
	})
}
