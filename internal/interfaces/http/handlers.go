package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bizplan/budget-service/internal/application/service"
	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/domain/entity"
	"github.com/bizplan/budget-service/internal/excel"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	healthTimeout   = 2 * time.Second
)

// claimFormFields are the optional funding fields of an upload
var claimFormFields = []string{"totalBudget", "provincialFund", "cityFund", "selfFund"}

// Handlers contains all HTTP request handlers
type Handlers struct {
	budgetService  service.BudgetService
	projectService service.ProjectService
	pinger         Pinger
	maxUploadBytes int64
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	budgetService service.BudgetService,
	projectService service.ProjectService,
	pinger Pinger,
	maxUploadBytes int64,
	logger Logger,
) *Handlers {
	return &Handlers{
		budgetService:  budgetService,
		projectService: projectService,
		pinger:         pinger,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadResult is a parsed sheet with an optional claim verdict
type UploadResult struct {
	*budget.BudgetSheet
	Validation *budget.ValidationResult `json:"validation,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := h.pinger.PingContext(ctx); err != nil {
			h.logger.Error("Database ping failed", "error", err)
			response.Status = "unhealthy"
			response.Database = "unavailable"
			c.JSON(http.StatusServiceUnavailable, Response{
				Success: false,
				Data:    response,
			})
			return
		}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// ValidateBudget handles POST /api/projects/validate-budget
func (h *Handlers) ValidateBudget(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	claim, err := req.toClaim()
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}

	result := h.budgetService.ValidateBudget(claim)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
}

// ValidateWithExcel handles POST /api/projects/validate-with-excel
func (h *Handlers) ValidateWithExcel(c *gin.Context) {
	var req ValidateWithExcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	if req.ExcelData == nil {
		h.badRequest(c, "excelData is required", nil)
		return
	}

	funding, err := req.toFunding()
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}
	totals, err := req.ExcelData.toTotals()
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}

	result := h.budgetService.ValidateWithSheet(funding, totals)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
}

// UploadExcel handles POST /api/projects/upload-excel
func (h *Handlers) UploadExcel(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Error("Upload too large", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, Response{
				Success: false,
				Error:   "file too large",
			})
			return
		}
		h.badRequest(c, "file is required", err)
		return
	}

	if err := excel.CheckFileName(fileHeader.Filename); err != nil {
		h.badRequest(c, "only .xlsx files are accepted", err)
		return
	}
	if fileHeader.Size == 0 {
		h.badRequest(c, "file is empty", nil)
		return
	}

	funding, err := claimFromForm(c)
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.internalError(c, "failed to read upload", err)
		return
	}
	defer file.Close()

	check, err := h.budgetService.ImportSheet(file, funding)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Budget sheet uploaded",
		"filename", fileHeader.Filename,
		"size", fileHeader.Size,
		"items", check.Sheet.ItemCount)

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "엑셀 파일 파싱 완료",
		Data: UploadResult{
			BudgetSheet: check.Sheet,
			Validation:  check.Validation,
		},
	})
}

// claimFromForm reads claimed funding form fields; nil when none are sent
func claimFromForm(c *gin.Context) (*budget.Funding, error) {
	var req ClaimRequest
	targets := []**json.Number{&req.TotalBudget, &req.ProvincialFund, &req.CityFund, &req.SelfFund}

	present := false
	for i, field := range claimFormFields {
		if v := c.PostForm(field); v != "" {
			n := json.Number(v)
			*targets[i] = &n
			present = true
		}
	}
	if !present {
		return nil, nil
	}

	funding, err := req.toFunding()
	if err != nil {
		return nil, err
	}
	return &funding, nil
}

// AutoAdjustBudget handles POST /api/projects/auto-adjust-budget
func (h *Handlers) AutoAdjustBudget(c *gin.Context) {
	var req AutoAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	target, err := requiredAmount("targetTotal", req.TargetTotal)
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}
	items, err := toItems(req.Items)
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}

	adj, err := h.budgetService.AutoAdjust(target, items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AutoAdjustResponse{
		Success:          true,
		Message:          "자동 조정 완료",
		Items:            adj.Items,
		Adjusted:         adj.Adjusted,
		Difference:       adj.Difference,
		NegativeLastItem: adj.NegativeLastItem,
	})
}

// SaveDraft handles POST /api/projects/save-draft
func (h *Handlers) SaveDraft(c *gin.Context) {
	h.storeProject(c, h.projectService.SaveDraft, "사업개요가 저장되었습니다")
}

// CreateProject handles POST /api/projects/create
func (h *Handlers) CreateProject(c *gin.Context) {
	h.storeProject(c, h.projectService.Create, "사업개요가 생성되었습니다")
}

type storeFunc func(ctx context.Context, draft service.ProjectDraft) (*entity.Project, error)

func (h *Handlers) storeProject(c *gin.Context, store storeFunc, message string) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	funding, err := req.toFunding()
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}
	sheet, err := req.ExcelData.toSheet()
	if err != nil {
		h.badRequest(c, err.Error(), err)
		return
	}

	project, err := store(c.Request.Context(), service.ProjectDraft{
		CommunityName:   req.CommunityName,
		ProjectName:     req.ProjectName,
		ProjectPeriod:   req.ProjectPeriod,
		ProjectLocation: req.ProjectLocation,
		Funding:         funding,
		Sheet:           sheet,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    toProjectResponse(project),
	})
}

// ListProjects handles GET /api/projects
func (h *Handlers) ListProjects(c *gin.Context) {
	var req ListProjectsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	projects, err := h.projectService.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.internalError(c, "failed to retrieve projects", err)
		return
	}

	responseProjects := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responseProjects = append(responseProjects, toProjectResponse(project))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responseProjects,
	})
}

// GetProject handles GET /api/projects/:id
func (h *Handlers) GetProject(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toProjectResponse(project),
	})
}

// AdjustProjectBudget handles POST /api/projects/:id/auto-adjust
func (h *Handlers) AdjustProjectBudget(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	result, err := h.projectService.AdjustStoredSheet(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "자동 조정 완료",
		Data: ProjectAdjustmentResponse{
			Project:          toProjectResponse(result.Project),
			Adjusted:         result.Adjustment.Adjusted,
			Difference:       result.Adjustment.Difference,
			NegativeLastItem: result.Adjustment.NegativeLastItem,
		},
	})
}

// CompleteProject handles POST /api/projects/:id/complete
func (h *Handlers) CompleteProject(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	result, err := h.projectService.Complete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: result.Completed,
		Message: result.Validation.Message,
		Data: ProjectCompletionResponse{
			Project:    toProjectResponse(result.Project),
			Validation: result.Validation,
		},
	})
}

// DownloadBudget handles GET /api/projects/:id/download-budget
func (h *Handlers) DownloadBudget(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	project, err := h.projectService.ExportSheet(c.Request.Context(), id, &buf)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := project.ProjectName + "_사업비산출내역.xlsx"
	if project.ProjectName == "" {
		filename = "사업비산출내역.xlsx"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handlers) projectID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Error("Invalid project ID", "id", idStr, "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid project ID",
		})
		return 0, false
	}
	return id, true
}

// respondError maps service errors to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		h.logger.Error("Project not found", "error", err)
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "project not found",
		})
	case errors.Is(err, service.ErrNoBudgetDetails),
		errors.Is(err, budget.ErrNoItems),
		errors.Is(err, budget.ErrInvalidAmount),
		errors.Is(err, budget.ErrAmountOverflow),
		errors.Is(err, excel.ErrHeaderNotFound),
		errors.Is(err, excel.ErrSheetNotFound),
		errors.Is(err, excel.ErrUnsupportedFile):
		h.badRequest(c, err.Error(), err)
	default:
		h.internalError(c, "internal error", err)
	}
}

func (h *Handlers) badRequest(c *gin.Context, msg string, err error) {
	h.logger.Error("Bad request", "path", c.FullPath(), "message", msg, "error", err)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

func (h *Handlers) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   msg,
	})
}
