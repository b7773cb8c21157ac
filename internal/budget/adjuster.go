package budget

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Adjustment is the outcome of AutoAdjust.
type Adjustment struct {
	Items      []BudgetLineItem `json:"items"`
	Adjusted   bool             `json:"adjusted"`
	Difference int64            `json:"difference"`

	// NegativeLastItem is set when absorbing the difference drove the last
	// item's amount below zero. The amount is kept as computed.
	NegativeLastItem bool `json:"negativeLastItem,omitempty"`
}

// Adjuster reconciles itemized budgets with a target total.
type Adjuster struct {
	split  FundingSplit
	logger *zap.Logger
}

// NewAdjuster creates an adjuster that re-splits the adjusted item with split.
func NewAdjuster(split FundingSplit, logger *zap.Logger) *Adjuster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adjuster{
		split:  split,
		logger: logger,
	}
}

// AutoAdjust makes the item amounts sum to targetTotal. The whole difference
// is absorbed by the last item, whose calculation basis and provincial/city
// shares are recomputed; its self fund is left as is. items is never
// modified; the returned slice is a copy.
func (a *Adjuster) AutoAdjust(targetTotal int64, items []BudgetLineItem) (*Adjustment, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	adjusted := make([]BudgetLineItem, len(items))
	copy(adjusted, items)

	totals, err := SumItems(adjusted)
	if err != nil {
		return nil, fmt.Errorf("sum line items: %w", err)
	}
	currentTotal := totals.Amount

	if currentTotal == targetTotal {
		return &Adjustment{Items: adjusted}, nil
	}

	difference := currentTotal - targetTotal
	last := &adjusted[len(adjusted)-1]

	newAmount, err := addChecked(last.Amount, -difference)
	if err != nil || difference == math.MinInt64 {
		return nil, fmt.Errorf("adjust last item: %w", ErrAmountOverflow)
	}

	last.Amount = newAmount
	last.CalculationBasis = RecalculateBasis(last.CalculationBasis, newAmount)
	last.ProvincialFund, last.CityFund = a.split.Split(newAmount)

	a.logger.Info("Budget auto-adjusted",
		zap.Int64("current_total", currentTotal),
		zap.Int64("target_total", targetTotal),
		zap.Int64("difference", difference),
		zap.Int64("new_amount", newAmount),
		zap.String("calculation", last.CalculationBasis))

	result := &Adjustment{
		Items:      adjusted,
		Adjusted:   true,
		Difference: difference,
	}
	if newAmount < 0 {
		result.NegativeLastItem = true
		a.logger.Warn("Adjusted line item amount is negative",
			zap.String("sub_project", last.SubProject),
			zap.String("budget_item", last.BudgetItem),
			zap.Int64("new_amount", newAmount))
	}

	return result, nil
}
