// Package excel converts budget sheets to and from xlsx workbooks.
package excel

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Header keywords; a row containing either one is the header row.
const (
	headerSubProject = "세부사업"
	headerBudgetItem = "사업비목"
)

// Column positions of a budget sheet.
const (
	colSubProject = iota
	colBudgetItem
	colCalculation
	colAmount
	colProvincial
	colCity
	colSelf
)

// DefaultHeaderScanRows is how many leading rows are searched for the header.
const DefaultHeaderScanRows = 6

// ParserConfig configures sheet import
type ParserConfig struct {
	// SheetName selects the worksheet; empty means the first one
	SheetName string
	// HeaderScanRows limits the header search
	HeaderScanRows int
}

// Parser reads budget line items from xlsx workbooks
type Parser struct {
	config ParserConfig
	logger *zap.Logger
}

// NewParser creates a new parser
func NewParser(config ParserConfig, logger *zap.Logger) *Parser {
	if config.HeaderScanRows <= 0 {
		config.HeaderScanRows = DefaultHeaderScanRows
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		config: config,
		logger: logger,
	}
}

// CheckFileName rejects anything but xlsx/xlsm workbooks
func CheckFileName(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
	}
}

// ParseFile opens the workbook at path and parses it
func (p *Parser) ParseFile(path string) (*budget.BudgetSheet, error) {
	if err := CheckFileName(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return p.parse(f)
}

// Parse reads a workbook from r
func (p *Parser) Parse(r io.Reader) (*budget.BudgetSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	defer f.Close()

	return p.parse(f)
}

func (p *Parser) parse(f *excelize.File) (*budget.BudgetSheet, error) {
	sheetName, err := p.resolveSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerIdx := findHeaderRow(rows, p.config.HeaderScanRows)
	if headerIdx < 0 {
		return nil, ErrHeaderNotFound
	}

	sheet := &budget.BudgetSheet{Items: []budget.BudgetLineItem{}}
	for _, row := range rows[headerIdx+1:] {
		subProject := strings.TrimSpace(cellAt(row, colSubProject))
		if subProject == "" || budget.IsAggregateLabel(subProject) {
			continue
		}

		sheet.Items = append(sheet.Items, budget.BudgetLineItem{
			SubProject:       subProject,
			BudgetItem:       strings.TrimSpace(cellAt(row, colBudgetItem)),
			CalculationBasis: strings.TrimSpace(cellAt(row, colCalculation)),
			Amount:           parseCellAmount(cellAt(row, colAmount)),
			ProvincialFund:   parseCellAmount(cellAt(row, colProvincial)),
			CityFund:         parseCellAmount(cellAt(row, colCity)),
			SelfFund:         parseCellAmount(cellAt(row, colSelf)),
		})
	}

	if err := sheet.Recalculate(); err != nil {
		return nil, fmt.Errorf("failed to total budget sheet: %w", err)
	}

	p.logger.Info("Budget sheet parsed",
		zap.String("sheet", sheetName),
		zap.Int("header_row", headerIdx+1),
		zap.Int("items", sheet.ItemCount),
		zap.Int64("total_amount", sheet.TotalAmount))

	return sheet, nil
}

func (p *Parser) resolveSheet(f *excelize.File) (string, error) {
	if p.config.SheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", ErrSheetNotFound
		}
		return sheets[0], nil
	}

	idx, err := f.GetSheetIndex(p.config.SheetName)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, p.config.SheetName)
	}
	return p.config.SheetName, nil
}

func findHeaderRow(rows [][]string, scan int) int {
	for i := 0; i < len(rows) && i < scan; i++ {
		for _, cell := range rows[i] {
			if strings.Contains(cell, headerSubProject) || strings.Contains(cell, headerBudgetItem) {
				return i
			}
		}
	}
	return -1
}

// cellAt tolerates the short rows GetRows returns for trailing blanks
func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// parseCellAmount reads a numeric cell. Numbers are truncated toward zero;
// text such as "1,000원" keeps only its digits. Unreadable values are 0.
func parseCellAmount(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
			return 0
		}
		return int64(f)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
