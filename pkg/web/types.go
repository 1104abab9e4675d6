// Package web provides HTTP request and response types for the API.
package web

import "github.com/sellerkit/compass/pkg/models"

// CreateWorkflowRequest represents the request body for creating a workflow template.
type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Slug        string `json:"slug"        validate:"required,min=3"`
	Description string `json:"description"`
	Owner       string `json:"owner"       validate:"required"`
}

// CreateCompositionRequest represents the request body for creating a composition.
type CreateCompositionRequest struct {
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Owner       string         `json:"owner"       validate:"required"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// DispatchExecutionRequest represents the request body for registering a new
// execution run, optionally placed inside a composition.
type DispatchExecutionRequest struct {
	WorkflowID     string  `json:"workflow_id"               validate:"required"`
	CompositionID  *string `json:"composition_id,omitempty"`
	NodeID         *string `json:"node_id,omitempty"`
	ExecutionOrder *int    `json:"execution_order,omitempty"`
}

// ReportStatusRequest represents the request body for reporting an execution
// status transition.
type ReportStatusRequest struct {
	Status         string  `json:"status"                     validate:"required,oneof=pending running completed failed"`
	ErrorMessage   string  `json:"error_message,omitempty"`
	ResultRowCount *int64  `json:"result_row_count,omitempty"`
	ResultLocation *string `json:"result_location,omitempty"`
}

// SaveProductRequest represents the request body for upserting a catalog entry.
type SaveProductRequest struct {
	Owner       string `json:"owner"       validate:"required"`
	SKU         string `json:"sku"`
	Title       string `json:"title"       validate:"required"`
	Brand       string `json:"brand"`
	Marketplace string `json:"marketplace" validate:"required"`
}

// SaveGuideRequest represents the request body for upserting a build guide.
type SaveGuideRequest struct {
	Title     string                `json:"title"    validate:"required,min=3"`
	Category  string                `json:"category"`
	Sections  []models.GuideSection `json:"sections"`
	Published bool                  `json:"published"`
}
