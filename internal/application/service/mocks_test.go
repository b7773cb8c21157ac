package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/domain/entity"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockProjectRepo struct {
	mu       sync.Mutex
	projects map[int64]*entity.Project
	nextID   int64

	createErr error
	updateErr error
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[int64]*entity.Project)}
}

func (m *mockProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	project.ID = m.nextID
	stored := *project
	m.projects[project.ID] = &stored
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectRepo) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Project
	for id := m.nextID; id > 0; id-- {
		if p, ok := m.projects[id]; ok {
			copied := *p
			out = append(out, &copied)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockProjectRepo) UpdateBudget(ctx context.Context, project *entity.Project) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[project.ID]; !ok {
		return fmt.Errorf("project %d not found", project.ID)
	}
	stored := *project
	m.projects[project.ID] = &stored
	return nil
}

func (m *mockProjectRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return fmt.Errorf("project %d not found", id)
	}
	p.Status = status
	return nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockSheetParser struct {
	parseFunc func(r io.Reader) (*budget.BudgetSheet, error)
}

func (m *mockSheetParser) Parse(r io.Reader) (*budget.BudgetSheet, error) {
	return m.parseFunc(r)
}

type mockSheetWriter struct {
	written *budget.BudgetSheet
	err     error
}

func (m *mockSheetWriter) Write(w io.Writer, sheet *budget.BudgetSheet) error {
	if m.err != nil {
		return m.err
	}
	m.written = sheet
	_, err := io.WriteString(w, "xlsx")
	return err
}
