package http

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/domain/entity"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ClaimRequest carries claimed funding. Missing fields count as zero.
type ClaimRequest struct {
	TotalBudget    *json.Number `json:"totalBudget"`
	ProvincialFund *json.Number `json:"provincialFund"`
	CityFund       *json.Number `json:"cityFund"`
	SelfFund       *json.Number `json:"selfFund"`
}

// SheetTotalsRequest carries the aggregates of a parsed sheet
type SheetTotalsRequest struct {
	TotalAmount     *json.Number `json:"totalAmount"`
	TotalProvincial *json.Number `json:"totalProvincial"`
	TotalCity       *json.Number `json:"totalCity"`
	TotalSelf       *json.Number `json:"totalSelf"`
}

// ValidateWithExcelRequest is a claim plus sheet aggregates
type ValidateWithExcelRequest struct {
	ClaimRequest
	ExcelData *SheetTotalsRequest `json:"excelData"`
}

// LineItemRequest is one budget row. Amount is required.
type LineItemRequest struct {
	SubProject     string       `json:"subProject"`
	BudgetItem     string       `json:"budgetItem"`
	Calculation    string       `json:"calculation"`
	Amount         *json.Number `json:"amount"`
	ProvincialFund *json.Number `json:"provincialFund"`
	CityFund       *json.Number `json:"cityFund"`
	SelfFund       *json.Number `json:"selfFund"`
}

// AutoAdjustRequest asks for items to be reconciled with targetTotal
type AutoAdjustRequest struct {
	TargetTotal *json.Number      `json:"targetTotal"`
	Items       []LineItemRequest `json:"items"`
}

// AutoAdjustResponse returns the adjusted items
type AutoAdjustResponse struct {
	Success          bool                    `json:"success"`
	Message          string                  `json:"message"`
	Items            []budget.BudgetLineItem `json:"items"`
	Adjusted         bool                    `json:"adjusted"`
	Difference       int64                   `json:"difference"`
	NegativeLastItem bool                    `json:"negativeLastItem,omitempty"`
}

// ExcelDataRequest is a parsed budget sheet as produced by upload-excel
type ExcelDataRequest struct {
	Items []LineItemRequest `json:"items"`
}

// ProjectRequest is the project overview form
type ProjectRequest struct {
	ClaimRequest
	CommunityName   string            `json:"communityName"`
	ProjectName     string            `json:"projectName"`
	ProjectPeriod   string            `json:"projectPeriod"`
	ProjectLocation string            `json:"projectLocation"`
	ExcelData       *ExcelDataRequest `json:"excelData"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID              int64               `json:"id"`
	CommunityName   string              `json:"communityName"`
	ProjectName     string              `json:"projectName"`
	ProjectPeriod   string              `json:"projectPeriod"`
	ProjectLocation string              `json:"projectLocation"`
	TotalBudget     int64               `json:"totalBudget"`
	ProvincialFund  int64               `json:"provincialFund"`
	CityFund        int64               `json:"cityFund"`
	SelfFund        int64               `json:"selfFund"`
	BudgetDetails   *budget.BudgetSheet `json:"budgetDetails,omitempty"`
	Status          string              `json:"status"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt"`
}

// ProjectAdjustmentResponse is the result of adjusting a stored sheet
type ProjectAdjustmentResponse struct {
	Project          ProjectResponse `json:"project"`
	Adjusted         bool            `json:"adjusted"`
	Difference       int64           `json:"difference"`
	NegativeLastItem bool            `json:"negativeLastItem,omitempty"`
}

// ProjectCompletionResponse is the result of finalizing a project
type ProjectCompletionResponse struct {
	Project    ProjectResponse         `json:"project"`
	Validation budget.ValidationResult `json:"validation"`
}

// ListProjectsRequest represents query parameters for listing projects
type ListProjectsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// optionalAmount parses a nullable number; absent stays nil
func optionalAmount(field string, n *json.Number) (*int64, error) {
	if n == nil || strings.TrimSpace(n.String()) == "" {
		return nil, nil
	}
	v, err := budget.ParseAmount(n.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &v, nil
}

// amountOrZero parses a nullable number; absent is zero
func amountOrZero(field string, n *json.Number) (int64, error) {
	v, err := optionalAmount(field, n)
	if err != nil || v == nil {
		return 0, err
	}
	return *v, nil
}

// requiredAmount parses a number that must be present
func requiredAmount(field string, n *json.Number) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("%s: %w: missing", field, budget.ErrInvalidAmount)
	}
	v, err := budget.ParseAmount(n.String())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func (r ClaimRequest) toClaim() (budget.BudgetClaim, error) {
	var claim budget.BudgetClaim
	var err error
	if claim.TotalBudget, err = optionalAmount("totalBudget", r.TotalBudget); err != nil {
		return claim, err
	}
	if claim.ProvincialFund, err = optionalAmount("provincialFund", r.ProvincialFund); err != nil {
		return claim, err
	}
	if claim.CityFund, err = optionalAmount("cityFund", r.CityFund); err != nil {
		return claim, err
	}
	if claim.SelfFund, err = optionalAmount("selfFund", r.SelfFund); err != nil {
		return claim, err
	}
	return claim, nil
}

func (r ClaimRequest) toFunding() (budget.Funding, error) {
	claim, err := r.toClaim()
	if err != nil {
		return budget.Funding{}, err
	}
	return budget.Funding{
		Total:      derefOrZero(claim.TotalBudget),
		Provincial: derefOrZero(claim.ProvincialFund),
		City:       derefOrZero(claim.CityFund),
		Self:       derefOrZero(claim.SelfFund),
	}, nil
}

func (r SheetTotalsRequest) toTotals() (budget.SheetTotals, error) {
	var t budget.SheetTotals
	var err error
	if t.Amount, err = amountOrZero("totalAmount", r.TotalAmount); err != nil {
		return t, err
	}
	if t.Provincial, err = amountOrZero("totalProvincial", r.TotalProvincial); err != nil {
		return t, err
	}
	if t.City, err = amountOrZero("totalCity", r.TotalCity); err != nil {
		return t, err
	}
	if t.Self, err = amountOrZero("totalSelf", r.TotalSelf); err != nil {
		return t, err
	}
	return t, nil
}

func (r LineItemRequest) toItem(index int) (budget.BudgetLineItem, error) {
	item := budget.BudgetLineItem{
		SubProject:       r.SubProject,
		BudgetItem:       r.BudgetItem,
		CalculationBasis: r.Calculation,
	}
	var err error
	prefix := fmt.Sprintf("items[%d].", index)
	if item.Amount, err = requiredAmount(prefix+"amount", r.Amount); err != nil {
		return item, err
	}
	if item.ProvincialFund, err = amountOrZero(prefix+"provincialFund", r.ProvincialFund); err != nil {
		return item, err
	}
	if item.CityFund, err = amountOrZero(prefix+"cityFund", r.CityFund); err != nil {
		return item, err
	}
	if item.SelfFund, err = amountOrZero(prefix+"selfFund", r.SelfFund); err != nil {
		return item, err
	}
	return item, nil
}

func toItems(reqs []LineItemRequest) ([]budget.BudgetLineItem, error) {
	items := make([]budget.BudgetLineItem, 0, len(reqs))
	for i, r := range reqs {
		item, err := r.toItem(i)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// toSheet rebuilds the sheet from its items; client-side totals are not trusted
func (r *ExcelDataRequest) toSheet() (*budget.BudgetSheet, error) {
	if r == nil {
		return nil, nil
	}
	items, err := toItems(r.Items)
	if err != nil {
		return nil, err
	}
	sheet := &budget.BudgetSheet{Items: items}
	if err := sheet.Recalculate(); err != nil {
		return nil, err
	}
	return sheet, nil
}

func derefOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// toProjectResponse converts entity to response DTO
func toProjectResponse(project *entity.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:              project.ID,
		CommunityName:   project.CommunityName,
		ProjectName:     project.ProjectName,
		ProjectPeriod:   project.ProjectPeriod,
		ProjectLocation: project.ProjectLocation,
		TotalBudget:     project.TotalBudget,
		ProvincialFund:  project.ProvincialFund,
		CityFund:        project.CityFund,
		SelfFund:        project.SelfFund,
		Status:          project.Status,
		CreatedAt:       project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       project.UpdatedAt.Format(time.RFC3339),
	}

	if project.HasBudgetDetails() {
		var sheet budget.BudgetSheet
		if err := json.Unmarshal([]byte(project.BudgetDetails), &sheet); err == nil {
			resp.BudgetDetails = &sheet
		}
	}

	return resp
}
