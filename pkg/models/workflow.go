// Package models defines the core domain models for campaign analytics and
// composition tracking.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow template.
type WorkflowStatus string

const (
	WorkflowStatusDraft     WorkflowStatus = "draft"     // Editable, not executable
	WorkflowStatusPublished WorkflowStatus = "published" // Current active, executable
	WorkflowStatusArchived  WorkflowStatus = "archived"  // Historical, not executable
)

// Workflow represents a reusable template definition whose runs are tracked
// as executions.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Slug        string         `json:"slug"        validate:"required"` // Stable external identifier
	Description string         `json:"description"`
	Status      WorkflowStatus `json:"status"      validate:"required"`
	Owner       string         `json:"owner"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}
