package excel

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// SheetTitle names the worksheet of generated workbooks
const SheetTitle = "사업비 산출내역"

// numFmtThousands is the builtin "#,##0" format
const numFmtThousands = 3

// Generator writes budget sheets as styled xlsx workbooks
type Generator struct {
	split  budget.FundingSplit
	logger *zap.Logger
}

// NewGenerator creates a new generator. The split only labels the fund columns.
func NewGenerator(split budget.FundingSplit, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		split:  split,
		logger: logger,
	}
}

// Headers returns the header row, with fund ratios as percentages
func (g *Generator) Headers() []string {
	return []string{
		headerSubProject,
		headerBudgetItem,
		"산출근거",
		"계",
		fmt.Sprintf("도비(%s%%)", percent(g.split.ProvincialRatio)),
		fmt.Sprintf("시군비(%s%%)", percent(g.split.CityRatio)),
		"자부담",
	}
}

func percent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).String()
}

// Generate builds the workbook. The caller must Close it.
func (g *Generator) Generate(sheet *budget.BudgetSheet) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTitle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := g.fill(f, sheet); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// Write generates the workbook and writes it to w
func (g *Generator) Write(w io.Writer, sheet *budget.BudgetSheet) error {
	f, err := g.Generate(sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Bytes generates the workbook in memory
func (g *Generator) Bytes(sheet *budget.BudgetSheet) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) fill(f *excelize.File, sheet *budget.BudgetSheet) error {
	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	headers := g.Headers()
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetTitle, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(SheetTitle, "A1", "G1", styles.header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	for _, item := range sheet.Items {
		values := []interface{}{
			item.SubProject,
			item.BudgetItem,
			item.CalculationBasis,
			item.Amount,
			item.ProvincialFund,
			item.CityFund,
			item.SelfFund,
		}
		if err := g.writeRow(f, row, values, styles.text, styles.number); err != nil {
			return err
		}
		row++
	}

	total := []interface{}{
		budget.LabelTotal,
		"",
		"",
		sheet.TotalAmount,
		sheet.TotalProvincial,
		sheet.TotalCity,
		sheet.TotalSelf,
	}
	if err := g.writeRow(f, row, total, styles.totalText, styles.totalNumber); err != nil {
		return err
	}

	widths := map[string]float64{"A": 18, "B": 16, "C": 30, "D": 14, "E": 14, "F": 14, "G": 14}
	for col, width := range widths {
		if err := f.SetColWidth(SheetTitle, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	g.logger.Debug("Budget sheet generated",
		zap.Int("items", len(sheet.Items)),
		zap.Int64("total_amount", sheet.TotalAmount))

	return nil
}

func (g *Generator) writeRow(f *excelize.File, row int, values []interface{}, textStyle, numberStyle int) error {
	start, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(SheetTitle, start, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	textEnd, _ := excelize.CoordinatesToCellName(colCalculation+1, row)
	numStart, _ := excelize.CoordinatesToCellName(colAmount+1, row)
	numEnd, _ := excelize.CoordinatesToCellName(colSelf+1, row)

	if err := f.SetCellStyle(SheetTitle, start, textEnd, textStyle); err != nil {
		return fmt.Errorf("failed to style row %d: %w", row, err)
	}
	if err := f.SetCellStyle(SheetTitle, numStart, numEnd, numberStyle); err != nil {
		return fmt.Errorf("failed to style row %d: %w", row, err)
	}
	return nil
}

type sheetStyles struct {
	header      int
	text        int
	number      int
	totalText   int
	totalNumber int
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	grey := excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1}
	bold := &excelize.Font{Bold: true}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	specs := []*excelize.Style{
		{Font: bold, Fill: grey, Border: border, Alignment: center},
		{Border: border},
		{Border: border, NumFmt: numFmtThousands},
		{Font: bold, Fill: grey, Border: border},
		{Font: bold, Fill: grey, Border: border, NumFmt: numFmtThousands},
	}

	ids := make([]int, len(specs))
	for i, spec := range specs {
		id, err := f.NewStyle(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		ids[i] = id
	}

	return &sheetStyles{
		header:      ids[0],
		text:        ids[1],
		number:      ids[2],
		totalText:   ids[3],
		totalNumber: ids[4],
	}, nil
}
