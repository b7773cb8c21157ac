package budget

import (
	"golang.org/x/text/message"
	"go.uber.org/zap"
)

// Validator checks claimed budget totals against their components. It holds
// no mutable state and is safe for concurrent use.
type Validator struct {
	printer *message.Printer
	logger  *zap.Logger
}

// NewValidator creates a validator. A nil logger disables diagnostics.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		printer: newPrinter(),
		logger:  logger,
	}
}

// ValidateBudget compares the claimed total against the sum of the provincial,
// city and self funds. Missing values count as zero. On mismatch the result
// suggests a corrected self fund; no other component is ever corrected.
func (v *Validator) ValidateBudget(claim BudgetClaim) ValidationResult {
	total := valueOrZero(claim.TotalBudget)
	provincial := valueOrZero(claim.ProvincialFund)
	city := valueOrZero(claim.CityFund)
	self := valueOrZero(claim.SelfFund)

	calculated := provincial + city + self

	v.logger.Debug("Validating budget",
		zap.Int64("total_budget", total),
		zap.Int64("provincial_fund", provincial),
		zap.Int64("city_fund", city),
		zap.Int64("self_fund", self),
		zap.Int64("calculated_total", calculated))

	if total == calculated {
		return ValidationResult{
			Valid:           true,
			Message:         msgBudgetValid,
			CalculatedTotal: calculated,
		}
	}

	difference := total - calculated
	correctSelf := self + difference

	// difference == 0 cannot reach here; the excess branch covers it anyway.
	var msg string
	if difference > 0 {
		msg = shortfallMessage(v.printer, difference, correctSelf)
	} else {
		msg = excessMessage(v.printer, difference, correctSelf)
	}

	return ValidationResult{
		Valid:           false,
		Message:         msg,
		CalculatedTotal: calculated,
		Difference:      &difference,
		CorrectSelfFund: &correctSelf,
	}
}

// ValidateWithSheet compares a claim against the aggregates of an imported
// budget sheet. The grand total is checked first; components are compared
// only when the totals agree. At most one failure reason is reported.
func (v *Validator) ValidateWithSheet(claimed Funding, sheet SheetTotals) ValidationResult {
	v.logger.Debug("Validating budget against sheet",
		zap.Int64("claimed_total", claimed.Total),
		zap.Int64("sheet_total", sheet.Amount))

	if claimed.Total != sheet.Amount {
		difference := claimed.Total - sheet.Amount
		return ValidationResult{
			Valid:           false,
			Message:         totalMismatchMessage(v.printer, claimed.Total, sheet.Amount, difference),
			CalculatedTotal: sheet.Amount,
			Difference:      &difference,
		}
	}

	if claimed.Provincial != sheet.Provincial || claimed.City != sheet.City || claimed.Self != sheet.Self {
		return ValidationResult{
			Valid:           false,
			Message:         componentMismatchMessage(v.printer, claimed, sheet),
			CalculatedTotal: sheet.Amount,
		}
	}

	return ValidationResult{
		Valid:           true,
		Message:         msgSheetValid,
		CalculatedTotal: sheet.Amount,
	}
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
