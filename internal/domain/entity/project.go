package entity

import (
	"time"

	"github.com/bizplan/budget-service/internal/budget"
)

// Project is a drafted business plan with its claimed funding and the
// itemized budget sheet attached to it.
type Project struct {
	ID              int64  `json:"id"`
	CommunityName   string `json:"community_name"`
	ProjectName     string `json:"project_name"`
	ProjectPeriod   string `json:"project_period"`
	ProjectLocation string `json:"project_location"`

	// Claimed funding, in thousand-won units
	TotalBudget    int64 `json:"total_budget"`
	ProvincialFund int64 `json:"provincial_fund"`
	CityFund       int64 `json:"city_fund"`
	SelfFund       int64 `json:"self_fund"`

	// BudgetDetails is the JSON-encoded budget sheet, empty when none was attached
	BudgetDetails string `json:"budget_details,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasBudgetDetails reports whether a budget sheet is attached.
func (p *Project) HasBudgetDetails() bool {
	return p.BudgetDetails != ""
}

// Funding returns the claimed funding.
func (p *Project) Funding() budget.Funding {
	return budget.Funding{
		Total:      p.TotalBudget,
		Provincial: p.ProvincialFund,
		City:       p.CityFund,
		Self:       p.SelfFund,
	}
}
