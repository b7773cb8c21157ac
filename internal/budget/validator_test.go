package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func TestValidator_ValidateBudget(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	v := NewValidator(logger)

	t.Run("components summing to total are valid", func(t *testing.T) {
		cases := [][3]int64{
			{0, 0, 0},
			{300, 700, 0},
			{1500, 3500, 5000},
			{-200, 100, 50},
			{30000000, 70000000, 1},
		}
		for _, c := range cases {
			total := c[0] + c[1] + c[2]
			result := v.ValidateBudget(BudgetClaim{
				TotalBudget:    int64Ptr(total),
				ProvincialFund: int64Ptr(c[0]),
				CityFund:       int64Ptr(c[1]),
				SelfFund:       int64Ptr(c[2]),
			})
			assert.True(t, result.Valid, "case %v", c)
			assert.Equal(t, total, result.CalculatedTotal)
			assert.Nil(t, result.Difference)
			assert.Nil(t, result.CorrectSelfFund)
		}
	})

	t.Run("shortfall suggests a larger self fund", func(t *testing.T) {
		result := v.ValidateBudget(BudgetClaim{
			TotalBudget:    int64Ptr(1500000),
			ProvincialFund: int64Ptr(300000),
			CityFund:       int64Ptr(700000),
			SelfFund:       int64Ptr(0),
		})

		assert.False(t, result.Valid)
		assert.Equal(t, int64(1000000), result.CalculatedTotal)
		require.NotNil(t, result.Difference)
		require.NotNil(t, result.CorrectSelfFund)
		assert.Equal(t, int64(500000), *result.Difference)
		assert.Equal(t, int64(500000), *result.CorrectSelfFund)
		assert.Contains(t, result.Message, "부족")
		assert.Contains(t, result.Message, "500,000")
	})

	t.Run("excess suggests a smaller self fund", func(t *testing.T) {
		result := v.ValidateBudget(BudgetClaim{
			TotalBudget:    int64Ptr(900),
			ProvincialFund: int64Ptr(300),
			CityFund:       int64Ptr(700),
			SelfFund:       int64Ptr(50),
		})

		assert.False(t, result.Valid)
		require.NotNil(t, result.Difference)
		assert.Equal(t, int64(-150), *result.Difference)
		assert.Equal(t, int64(-100), *result.CorrectSelfFund)
		assert.Contains(t, result.Message, "초과")
	})

	t.Run("missing components count as zero", func(t *testing.T) {
		result := v.ValidateBudget(BudgetClaim{TotalBudget: int64Ptr(1000)})

		assert.False(t, result.Valid)
		assert.Equal(t, int64(0), result.CalculatedTotal)
		assert.Equal(t, int64(1000), *result.Difference)
		assert.Equal(t, int64(1000), *result.CorrectSelfFund)
	})

	t.Run("empty claim is valid", func(t *testing.T) {
		result := v.ValidateBudget(BudgetClaim{})

		assert.True(t, result.Valid)
		assert.Equal(t, int64(0), result.CalculatedTotal)
	})

	t.Run("correction always reconciles", func(t *testing.T) {
		claims := []BudgetClaim{
			{TotalBudget: int64Ptr(10), ProvincialFund: int64Ptr(3), CityFund: int64Ptr(3), SelfFund: int64Ptr(3)},
			{TotalBudget: int64Ptr(0), ProvincialFund: int64Ptr(3), CityFund: int64Ptr(7)},
			{TotalBudget: int64Ptr(-5), SelfFund: int64Ptr(5)},
			{ProvincialFund: int64Ptr(1)},
		}
		for _, claim := range claims {
			result := v.ValidateBudget(claim)
			require.False(t, result.Valid)

			self := valueOrZero(claim.SelfFund)
			total := valueOrZero(claim.TotalBudget)
			assert.Equal(t, self+*result.Difference, *result.CorrectSelfFund)
			assert.Equal(t, total, result.CalculatedTotal+*result.Difference)
		}
	})
}

func TestValidator_ValidateWithSheet(t *testing.T) {
	v := NewValidator(nil)

	t.Run("component mismatch when totals agree", func(t *testing.T) {
		result := v.ValidateWithSheet(
			Funding{Total: 1000, Provincial: 300, City: 700, Self: 0},
			SheetTotals{Amount: 1000, Provincial: 300, City: 650, Self: 50},
		)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Message, "보조금/자부담")
		assert.Contains(t, result.Message, "700 (입력) vs 650 (엑셀)")
		assert.Nil(t, result.Difference)
		assert.Equal(t, int64(1000), result.CalculatedTotal)
	})

	t.Run("total mismatch is reported alone", func(t *testing.T) {
		result := v.ValidateWithSheet(
			Funding{Total: 1200, Provincial: 1, City: 2, Self: 3},
			SheetTotals{Amount: 1000, Provincial: 300, City: 650, Self: 50},
		)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Message, "총사업비 불일치")
		assert.Contains(t, result.Message, "부족")
		assert.NotContains(t, result.Message, "보조금/자부담")
		require.NotNil(t, result.Difference)
		assert.Equal(t, int64(200), *result.Difference)
	})

	t.Run("total excess", func(t *testing.T) {
		result := v.ValidateWithSheet(
			Funding{Total: 800},
			SheetTotals{Amount: 1000},
		)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Message, "초과")
		assert.Equal(t, int64(-200), *result.Difference)
	})

	t.Run("matching claim passes", func(t *testing.T) {
		result := v.ValidateWithSheet(
			Funding{Total: 1000, Provincial: 300, City: 650, Self: 50},
			SheetTotals{Amount: 1000, Provincial: 300, City: 650, Self: 50},
		)

		assert.True(t, result.Valid)
		assert.Equal(t, msgSheetValid, result.Message)
	})
}
