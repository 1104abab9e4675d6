// Package web provides HTTP handlers and REST API endpoints for the
// execution status and catalog API.
package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
	"github.com/sellerkit/compass/pkg/services"
)

type APIHandlers struct {
	workflowService    *services.Workflow
	compositionService *services.Composition
	executionService   *services.Execution
	campaignService    *services.Campaign
	catalogService     *services.Catalog
	guideService       *services.Guide
	validator          *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	compositionService *services.Composition,
	executionService *services.Execution,
	campaignService *services.Campaign,
	catalogService *services.Catalog,
	guideService *services.Guide,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService:    workflowService,
		compositionService: compositionService,
		executionService:   executionService,
		campaignService:    campaignService,
		catalogService:     catalogService,
		guideService:       guideService,
		validator:          validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// Composition endpoints

func (h *APIHandlers) GetCompositionSummary(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Composition ID is required")
	}

	summary, err := h.compositionService.Summarize(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(summary)
}

func (h *APIHandlers) GetCompositionExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Composition ID is required")
	}

	details, err := h.compositionService.Detail(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"composition_id": id,
		"executions":     details,
	})
}

func (h *APIHandlers) GetCompositions(c fiber.Ctx) error {
	compositions, err := h.compositionService.FetchAll(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(compositions)
}

func (h *APIHandlers) GetComposition(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Composition ID is required")
	}

	composition, err := h.compositionService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsCompositionNotFound(err) {
			return notFound(c, "Composition not found")
		}

		return internalError(c, err)
	}

	return c.JSON(composition)
}

func (h *APIHandlers) CreateComposition(c fiber.Ctx) error {
	var req CreateCompositionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	composition := &models.Composition{
		Name:        req.Name,
		Description: req.Description,
		Owner:       req.Owner,
		Metadata:    req.Metadata,
	}

	created, err := h.compositionService.Create(c.Context(), composition)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteComposition(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Composition ID is required")
	}

	if err := h.compositionService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Execution endpoints

func (h *APIHandlers) DispatchExecution(c fiber.Ctx) error {
	var req DispatchExecutionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	execution, err := h.executionService.Dispatch(c.Context(), &services.DispatchExecutionRequest{
		WorkflowID:     req.WorkflowID,
		CompositionID:  req.CompositionID,
		NodeID:         req.NodeID,
		ExecutionOrder: req.ExecutionOrder,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(execution)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.executionService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsExecutionNotFound(err) {
			return notFound(c, "Execution not found")
		}

		return internalError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) ReportExecutionStatus(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	var req ReportStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	execution, err := h.executionService.ReportStatus(c.Context(), id, &services.ReportStatusRequest{
		Status:         models.ExecutionStatus(req.Status),
		ErrorMessage:   req.ErrorMessage,
		ResultRowCount: req.ResultRowCount,
		ResultLocation: req.ResultLocation,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

// Workflow endpoints

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.FetchAll(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow := &models.Workflow{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Owner:       req.Owner,
	}

	created, err := h.workflowService.Create(c.Context(), workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.workflowService.Delete(c.Context(), id); err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	executions, err := h.workflowService.ListExecutions(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(executions)
}

// Campaign endpoints

func (h *APIHandlers) SearchCampaigns(c fiber.Ctx) error {
	req, err := h.parseSearchCampaignsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.campaignService.Search(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"campaigns":     result.Campaigns,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseSearchCampaignsRequest parses and validates query parameters for campaign search.
func (h *APIHandlers) parseSearchCampaignsRequest(c fiber.Ctx) (*services.SearchCampaignsRequest, error) {
	req := &services.SearchCampaignsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.Owner = c.Query("owner")
	req.Query = c.Query("q")

	// Set filters arrive as comma-separated values: ?state=enabled,paused
	req.Brands = splitQueryValues(c.Query("brand"))
	req.States = splitQueryValues(c.Query("state"))
	req.Types = splitQueryValues(c.Query("type"))

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func splitQueryValues(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}

// Catalog endpoints

func (h *APIHandlers) GetProducts(c fiber.Ctx) error {
	owner := c.Query("owner")

	products, err := h.catalogService.ListByOwner(c.Context(), owner)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(products)
}

func (h *APIHandlers) SaveProduct(c fiber.Ctx) error {
	asin := c.Params("asin")
	if asin == "" {
		return badRequest(c, "ASIN is required")
	}

	var req SaveProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	product := &models.Product{
		Owner:       req.Owner,
		ASIN:        asin,
		SKU:         req.SKU,
		Title:       req.Title,
		Brand:       req.Brand,
		Marketplace: req.Marketplace,
	}

	saved, err := h.catalogService.Save(c.Context(), product)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(saved)
}

// Guide endpoints

func (h *APIHandlers) GetGuides(c fiber.Ctx) error {
	guides, err := h.guideService.ListPublished(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(guides)
}

func (h *APIHandlers) GetGuide(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "Guide slug is required")
	}

	guide, err := h.guideService.FetchBySlug(c.Context(), slug)
	if err != nil {
		if persistence.IsGuideNotFound(err) {
			return notFound(c, "Guide not found")
		}

		return internalError(c, err)
	}

	return c.JSON(guide)
}

func (h *APIHandlers) SaveGuide(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "Guide slug is required")
	}

	var req SaveGuideRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	guide := &models.Guide{
		Slug:      slug,
		Title:     req.Title,
		Category:  req.Category,
		Sections:  req.Sections,
		Published: req.Published,
	}

	saved, err := h.guideService.Save(c.Context(), guide)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(saved)
}
