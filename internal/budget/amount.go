package budget

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a required integer amount. Blank, fractional and
// non-numeric input is rejected; it is never coerced to zero.
func ParseAmount(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: missing", ErrInvalidAmount)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return v, nil
}

// SumItems sums amount and fund columns over items.
func SumItems(items []BudgetLineItem) (SheetTotals, error) {
	var t SheetTotals
	var err error
	for i, item := range items {
		if t.Amount, err = addChecked(t.Amount, item.Amount); err != nil {
			return SheetTotals{}, fmt.Errorf("item %d amount: %w", i, err)
		}
		if t.Provincial, err = addChecked(t.Provincial, item.ProvincialFund); err != nil {
			return SheetTotals{}, fmt.Errorf("item %d provincial fund: %w", i, err)
		}
		if t.City, err = addChecked(t.City, item.CityFund); err != nil {
			return SheetTotals{}, fmt.Errorf("item %d city fund: %w", i, err)
		}
		if t.Self, err = addChecked(t.Self, item.SelfFund); err != nil {
			return SheetTotals{}, fmt.Errorf("item %d self fund: %w", i, err)
		}
	}
	return t, nil
}

func addChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}
