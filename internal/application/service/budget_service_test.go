package service

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/excel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func newTestBudgetService(parser SheetParser, writer SheetWriter) BudgetService {
	return NewBudgetService(
		budget.NewValidator(nil),
		budget.NewAdjuster(budget.DefaultFundingSplit, nil),
		parser,
		writer,
		&mockLogger{},
	)
}

func TestBudgetService_ValidateBudget(t *testing.T) {
	svc := newTestBudgetService(nil, nil)

	result := svc.ValidateBudget(budget.BudgetClaim{
		TotalBudget:    int64Ptr(1000),
		ProvincialFund: int64Ptr(300),
		CityFund:       int64Ptr(700),
	})
	assert.True(t, result.Valid)
	assert.Equal(t, int64(1000), result.CalculatedTotal)

	result = svc.ValidateBudget(budget.BudgetClaim{
		TotalBudget:    int64Ptr(1000),
		ProvincialFund: int64Ptr(300),
		CityFund:       int64Ptr(600),
	})
	assert.False(t, result.Valid)
	require.NotNil(t, result.CorrectSelfFund)
	assert.Equal(t, int64(100), *result.CorrectSelfFund)
}

func TestBudgetService_AutoAdjust(t *testing.T) {
	svc := newTestBudgetService(nil, nil)

	adj, err := svc.AutoAdjust(2500, []budget.BudgetLineItem{
		{SubProject: "A", Amount: 1000},
		{SubProject: "B", CalculationBasis: "100원 × 10개", Amount: 1000},
	})
	require.NoError(t, err)
	assert.True(t, adj.Adjusted)
	assert.Equal(t, int64(1500), adj.Items[1].Amount)
	assert.Equal(t, "100원 × 15개", adj.Items[1].CalculationBasis)

	_, err = svc.AutoAdjust(100, nil)
	assert.ErrorIs(t, err, budget.ErrNoItems)
}

func TestBudgetService_ImportSheet(t *testing.T) {
	sheet := &budget.BudgetSheet{
		Items: []budget.BudgetLineItem{
			{SubProject: "A", Amount: 1000, ProvincialFund: 300, CityFund: 650, SelfFund: 50},
		},
	}
	require.NoError(t, sheet.Recalculate())

	parser := &mockSheetParser{parseFunc: func(r io.Reader) (*budget.BudgetSheet, error) {
		return sheet, nil
	}}
	svc := newTestBudgetService(parser, nil)

	t.Run("without claim", func(t *testing.T) {
		check, err := svc.ImportSheet(strings.NewReader(""), nil)
		require.NoError(t, err)
		assert.Same(t, sheet, check.Sheet)
		assert.Nil(t, check.Validation)
	})

	t.Run("component mismatch", func(t *testing.T) {
		check, err := svc.ImportSheet(strings.NewReader(""), &budget.Funding{
			Total: 1000, Provincial: 300, City: 700, Self: 0,
		})
		require.NoError(t, err)
		require.NotNil(t, check.Validation)
		assert.False(t, check.Validation.Valid)
	})

	t.Run("parse failure", func(t *testing.T) {
		failing := newTestBudgetService(&mockSheetParser{parseFunc: func(r io.Reader) (*budget.BudgetSheet, error) {
			return nil, excel.ErrHeaderNotFound
		}}, nil)
		_, err := failing.ImportSheet(strings.NewReader(""), nil)
		assert.ErrorIs(t, err, excel.ErrHeaderNotFound)
	})
}

func TestBudgetService_ExportImportWithWorkbook(t *testing.T) {
	svc := newTestBudgetService(
		excel.NewParser(excel.ParserConfig{}, nil),
		excel.NewGenerator(budget.DefaultFundingSplit, nil),
	)

	sheet := &budget.BudgetSheet{
		Items: []budget.BudgetLineItem{
			{SubProject: "교육", BudgetItem: "강사비", CalculationBasis: "50000원 × 4회", Amount: 200000, ProvincialFund: 60000, CityFund: 140000},
		},
	}
	require.NoError(t, sheet.Recalculate())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportSheet(&buf, sheet))

	check, err := svc.ImportSheet(&buf, &budget.Funding{Total: 200000, Provincial: 60000, City: 140000})
	require.NoError(t, err)
	assert.Equal(t, sheet.Items, check.Sheet.Items)
	assert.True(t, check.Validation.Valid)
}

func TestBudgetService_ExportFailure(t *testing.T) {
	errDisk := errors.New("disk full")
	svc := newTestBudgetService(nil, &mockSheetWriter{err: errDisk})

	err := svc.ExportSheet(io.Discard, &budget.BudgetSheet{})
	assert.ErrorIs(t, err, errDisk)
}
