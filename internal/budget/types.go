// Package budget implements budget reconciliation for project funding plans:
// validating a claimed total against its funding sources and auto-adjusting
// itemized budget lines so their sum matches a target total.
//
// All amounts are integers denominated in thousand-won units.
package budget

// Row labels that mark aggregate rows rather than line items.
const (
	LabelSubtotal = "소계"
	LabelTotal    = "합계"
)

// BudgetLineItem is one row of a cost breakdown.
type BudgetLineItem struct {
	SubProject       string `json:"subProject"`
	BudgetItem       string `json:"budgetItem"`
	CalculationBasis string `json:"calculation"`
	Amount           int64  `json:"amount"`
	ProvincialFund   int64  `json:"provincialFund"`
	CityFund         int64  `json:"cityFund"`
	SelfFund         int64  `json:"selfFund"`
}

// IsAggregateLabel reports whether a sub-project label denotes a subtotal
// or total row, which must never be treated as a line item.
func IsAggregateLabel(subProject string) bool {
	return subProject == LabelSubtotal || subProject == LabelTotal
}

// SheetTotals holds the four aggregates of a budget sheet.
type SheetTotals struct {
	Amount     int64 `json:"totalAmount"`
	Provincial int64 `json:"totalProvincial"`
	City       int64 `json:"totalCity"`
	Self       int64 `json:"totalSelf"`
}

// BudgetSheet is an ordered list of line items plus aggregates that were
// computed upstream. The aggregates are not guaranteed to match the items.
type BudgetSheet struct {
	Items           []BudgetLineItem `json:"items"`
	TotalAmount     int64            `json:"totalAmount"`
	TotalProvincial int64            `json:"totalProvincial"`
	TotalCity       int64            `json:"totalCity"`
	TotalSelf       int64            `json:"totalSelf"`
	ItemCount       int              `json:"itemCount"`
}

// Totals returns the sheet's declared aggregates.
func (s *BudgetSheet) Totals() SheetTotals {
	return SheetTotals{
		Amount:     s.TotalAmount,
		Provincial: s.TotalProvincial,
		City:       s.TotalCity,
		Self:       s.TotalSelf,
	}
}

// Recalculate replaces the declared aggregates with sums over Items.
func (s *BudgetSheet) Recalculate() error {
	totals, err := SumItems(s.Items)
	if err != nil {
		return err
	}
	s.TotalAmount = totals.Amount
	s.TotalProvincial = totals.Provincial
	s.TotalCity = totals.City
	s.TotalSelf = totals.Self
	s.ItemCount = len(s.Items)
	return nil
}

// BudgetClaim is the applicant's claimed total and its funding components.
// A nil component means "not yet provided" and counts as zero.
type BudgetClaim struct {
	TotalBudget    *int64 `json:"totalBudget"`
	ProvincialFund *int64 `json:"provincialFund"`
	CityFund       *int64 `json:"cityFund"`
	SelfFund       *int64 `json:"selfFund"`
}

// Funding is a fully specified claim, compared field by field against the
// aggregates of an imported sheet.
type Funding struct {
	Total      int64 `json:"totalBudget"`
	Provincial int64 `json:"provincialFund"`
	City       int64 `json:"cityFund"`
	Self       int64 `json:"selfFund"`
}

// ValidationResult is the verdict of a budget check. An invalid budget is a
// normal result, not an error.
type ValidationResult struct {
	Valid           bool   `json:"valid"`
	Message         string `json:"message"`
	CalculatedTotal int64  `json:"calculatedTotal"`
	Difference      *int64 `json:"difference,omitempty"`
	CorrectSelfFund *int64 `json:"correctSelfFund,omitempty"`
}
