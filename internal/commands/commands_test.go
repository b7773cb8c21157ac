package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/excel"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeSheet(t *testing.T, items ...budget.BudgetLineItem) string {
	t.Helper()

	sheet := &budget.BudgetSheet{Items: items}
	require.NoError(t, sheet.Recalculate())

	f, err := excel.NewGenerator(budget.DefaultFundingSplit, nil).Generate(sheet)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "budget.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func sampleSheet(t *testing.T) string {
	return writeSheet(t,
		budget.BudgetLineItem{SubProject: "마을축제", BudgetItem: "홍보비", CalculationBasis: "일괄", Amount: 1000, ProvincialFund: 300, CityFund: 700},
		budget.BudgetLineItem{SubProject: "교육", BudgetItem: "강사비", CalculationBasis: "일괄", Amount: 500, ProvincialFund: 150, CityFund: 300, SelfFund: 50},
	)
}

func TestRootCommand_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestValidate(t *testing.T) {
	t.Run("consistent claim", func(t *testing.T) {
		out, err := execute(t, "validate", "--total", "1000", "--provincial", "300", "--city", "500", "--self", "200")
		require.NoError(t, err)
		assert.Contains(t, out, "OK")
	})

	t.Run("shortfall", func(t *testing.T) {
		out, err := execute(t, "validate", "--total", "1000", "--provincial", "300", "--city", "500")
		assert.ErrorIs(t, err, ErrBudgetInvalid)
		assert.Contains(t, out, "MISMATCH")
		assert.Contains(t, out, "부족")
	})

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "--json", "validate", "--total", "1000", "--provincial", "300", "--city", "800")
		assert.ErrorIs(t, err, ErrBudgetInvalid)

		var result budget.ValidationResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.False(t, result.Valid)
		require.NotNil(t, result.CorrectSelfFund)
		assert.Equal(t, int64(-100), *result.CorrectSelfFund)
	})

	t.Run("rejects positional args", func(t *testing.T) {
		_, err := execute(t, "validate", "extra")
		assert.Error(t, err)
	})
}

func TestCheckSheet(t *testing.T) {
	path := sampleSheet(t)

	t.Run("totals only", func(t *testing.T) {
		out, err := execute(t, "check-sheet", path)
		require.NoError(t, err)
		assert.Contains(t, out, "items: 2")
		assert.Contains(t, out, "total: 1500 (provincial 450, city 1000, self 50)")
	})

	t.Run("matching claim", func(t *testing.T) {
		out, err := execute(t, "check-sheet", path, "--total", "1500", "--provincial", "450", "--city", "1000", "--self", "50")
		require.NoError(t, err)
		assert.Contains(t, out, "OK")
	})

	t.Run("total mismatch", func(t *testing.T) {
		out, err := execute(t, "check-sheet", path, "--total", "2000", "--provincial", "450", "--city", "1000", "--self", "50")
		assert.ErrorIs(t, err, ErrBudgetInvalid)
		assert.Contains(t, out, "총사업비 불일치")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "--json", "check-sheet", path)
		require.NoError(t, err)

		var check struct {
			Sheet budget.BudgetSheet
		}
		require.NoError(t, json.Unmarshal([]byte(out), &check))
		assert.Equal(t, 2, check.Sheet.ItemCount)
	})

	t.Run("unsupported file", func(t *testing.T) {
		_, err := execute(t, "check-sheet", filepath.Join(t.TempDir(), "budget.xls"))
		assert.ErrorIs(t, err, excel.ErrUnsupportedFile)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "check-sheet", filepath.Join(t.TempDir(), "missing.xlsx"))
		assert.Error(t, err)
	})
}

func TestAdjust(t *testing.T) {
	path := sampleSheet(t)

	t.Run("absorbs difference in last item", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "adjusted.xlsx")
		out, err := execute(t, "adjust", path, "--target", "1400", "--out", outPath)
		require.NoError(t, err)
		assert.Contains(t, out, "adjusted last item by -100 to 400")

		sheet, err := excel.NewParser(excel.ParserConfig{}, nil).ParseFile(outPath)
		require.NoError(t, err)
		assert.Equal(t, int64(1400), sheet.TotalAmount)
		require.Len(t, sheet.Items, 2)
		last := sheet.Items[1]
		assert.Equal(t, int64(400), last.Amount)
		assert.Equal(t, int64(120), last.ProvincialFund)
		assert.Equal(t, int64(280), last.CityFund)
		assert.Equal(t, int64(50), last.SelfFund)
	})

	t.Run("already balanced", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "same.xlsx")
		out, err := execute(t, "adjust", path, "--target", "1500", "-o", outPath)
		require.NoError(t, err)
		assert.Contains(t, out, "already at 1500")
	})

	t.Run("negative last item warns", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "negative.xlsx")
		out, err := execute(t, "adjust", path, "--target", "900", "-o", outPath)
		require.NoError(t, err)
		assert.Contains(t, out, "warning")
	})

	t.Run("requires target and out", func(t *testing.T) {
		_, err := execute(t, "adjust", path)
		assert.Error(t, err)
	})

	t.Run("rejects xls output", func(t *testing.T) {
		_, err := execute(t, "adjust", path, "--target", "1400", "--out", filepath.Join(t.TempDir(), "out.xls"))
		assert.ErrorIs(t, err, excel.ErrUnsupportedFile)
	})

	t.Run("invalid ratio", func(t *testing.T) {
		_, err := execute(t, "--provincial-ratio", "1.5", "adjust", path, "--target", "1400", "-o", filepath.Join(t.TempDir(), "x.xlsx"))
		assert.ErrorIs(t, err, budget.ErrInvalidRatio)
	})
}
