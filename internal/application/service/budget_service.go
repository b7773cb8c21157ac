package service

import (
	"fmt"
	"io"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/excel"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SheetParser reads a budget sheet from an xlsx stream
type SheetParser interface {
	Parse(r io.Reader) (*budget.BudgetSheet, error)
}

// SheetWriter renders a budget sheet as xlsx
type SheetWriter interface {
	Write(w io.Writer, sheet *budget.BudgetSheet) error
}

// SheetCheck is an imported sheet plus, when a claim was supplied, its verdict
type SheetCheck struct {
	Sheet      *budget.BudgetSheet      `json:"sheet"`
	Validation *budget.ValidationResult `json:"validation,omitempty"`
}

// BudgetService validates claimed budgets and reconciles line items
type BudgetService interface {
	ValidateBudget(claim budget.BudgetClaim) budget.ValidationResult
	ValidateWithSheet(funding budget.Funding, totals budget.SheetTotals) budget.ValidationResult
	AutoAdjust(targetTotal int64, items []budget.BudgetLineItem) (*budget.Adjustment, error)
	ImportSheet(r io.Reader, funding *budget.Funding) (*SheetCheck, error)
	ExportSheet(w io.Writer, sheet *budget.BudgetSheet) error
}

type budgetServiceImpl struct {
	validator *budget.Validator
	adjuster  *budget.Adjuster
	parser    SheetParser
	writer    SheetWriter
	logger    Logger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	validator *budget.Validator,
	adjuster *budget.Adjuster,
	parser SheetParser,
	writer SheetWriter,
	logger Logger,
) BudgetService {
	return &budgetServiceImpl{
		validator: validator,
		adjuster:  adjuster,
		parser:    parser,
		writer:    writer,
		logger:    logger,
	}
}

// ValidateBudget checks a claimed total against its components
func (s *budgetServiceImpl) ValidateBudget(claim budget.BudgetClaim) budget.ValidationResult {
	result := s.validator.ValidateBudget(claim)
	s.logger.Info("Budget validated", "valid", result.Valid, "calculated_total", result.CalculatedTotal)
	return result
}

// ValidateWithSheet checks a claim against imported sheet aggregates
func (s *budgetServiceImpl) ValidateWithSheet(funding budget.Funding, totals budget.SheetTotals) budget.ValidationResult {
	result := s.validator.ValidateWithSheet(funding, totals)
	s.logger.Info("Budget validated against sheet", "valid", result.Valid, "sheet_total", totals.Amount)
	return result
}

// AutoAdjust reconciles items to targetTotal
func (s *budgetServiceImpl) AutoAdjust(targetTotal int64, items []budget.BudgetLineItem) (*budget.Adjustment, error) {
	adj, err := s.adjuster.AutoAdjust(targetTotal, items)
	if err != nil {
		s.logger.Error("Failed to auto-adjust budget", "error", err, "target_total", targetTotal)
		return nil, fmt.Errorf("auto-adjust: %w", err)
	}
	return adj, nil
}

// ImportSheet parses an uploaded workbook; a non-nil funding is validated
// against the parsed aggregates
func (s *budgetServiceImpl) ImportSheet(r io.Reader, funding *budget.Funding) (*SheetCheck, error) {
	sheet, err := s.parser.Parse(r)
	if err != nil {
		s.logger.Error("Failed to import budget sheet", "error", err)
		return nil, fmt.Errorf("import sheet: %w", err)
	}

	check := &SheetCheck{Sheet: sheet}
	if funding != nil {
		result := s.ValidateWithSheet(*funding, sheet.Totals())
		check.Validation = &result
	}

	s.logger.Info("Budget sheet imported", "items", sheet.ItemCount, "total_amount", sheet.TotalAmount)
	return check, nil
}

// ExportSheet writes the sheet as xlsx
func (s *budgetServiceImpl) ExportSheet(w io.Writer, sheet *budget.BudgetSheet) error {
	if err := s.writer.Write(w, sheet); err != nil {
		s.logger.Error("Failed to export budget sheet", "error", err)
		return fmt.Errorf("export sheet: %w", err)
	}
	return nil
}

var (
	_ SheetParser = (*excel.Parser)(nil)
	_ SheetWriter = (*excel.Generator)(nil)
)
