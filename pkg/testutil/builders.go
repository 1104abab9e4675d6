// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/sellerkit/compass/pkg/models"
)

// CreateTestWorkflow creates a test Workflow with default values that can be overridden.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        "Catalog Refresh",
		Slug:        "catalog-refresh-" + uuid.New().String()[:8],
		Description: "Refreshes the product catalog from the marketplace feed",
		Status:      models.WorkflowStatusPublished,
		Owner:       "tenant-1",
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// CreateTestComposition creates a test Composition with default values that can be overridden.
func CreateTestComposition(overrides ...func(*models.Composition)) *models.Composition {
	composition := &models.Composition{
		ID:          uuid.New().String(),
		Name:        "Nightly Catalog Pipeline",
		Description: "Extract, transform and publish catalog data",
		Owner:       "tenant-1",
	}

	for _, override := range overrides {
		override(composition)
	}

	return composition
}

// CreateTestExecution creates a test Execution with default values that can be overridden.
func CreateTestExecution(workflowID string, overrides ...func(*models.Execution)) *models.Execution {
	execution := &models.Execution{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		Status:     models.ExecutionStatusPending,
	}

	for _, override := range overrides {
		override(execution)
	}

	return execution
}

// WithCompositionMember places the execution inside a composition at the
// given node, optionally with an execution order.
func WithCompositionMember(compositionID, nodeID string, order *int) func(*models.Execution) {
	return func(e *models.Execution) {
		e.CompositionID = &compositionID
		e.NodeID = &nodeID
		e.ExecutionOrder = order
	}
}

// WithStatus sets the execution status.
func WithStatus(status models.ExecutionStatus) func(*models.Execution) {
	return func(e *models.Execution) {
		e.Status = status
	}
}

// WithCreatedAt pins the execution creation timestamp.
func WithCreatedAt(createdAt time.Time) func(*models.Execution) {
	return func(e *models.Execution) {
		e.CreatedAt = createdAt
	}
}

// CreateTestCampaign creates a test Campaign with default values that can be overridden.
func CreateTestCampaign(overrides ...func(*models.Campaign)) *models.Campaign {
	campaign := &models.Campaign{
		ID:          uuid.New().String(),
		Owner:       "tenant-1",
		Name:        "Spring Sale - Widgets",
		Brand:       "Acme",
		State:       models.CampaignStateEnabled,
		Type:        models.CampaignTypeSponsoredProducts,
		DailyBudget: 25.00,
	}

	for _, override := range overrides {
		override(campaign)
	}

	return campaign
}

// IntPtr returns a pointer to the given int.
func IntPtr(v int) *int {
	return &v
}
