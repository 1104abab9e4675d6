package models_test

import (
	"testing"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestExecutionStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, status := range []models.ExecutionStatus{
		models.ExecutionStatusPending,
		models.ExecutionStatusRunning,
		models.ExecutionStatusCompleted,
		models.ExecutionStatusFailed,
	} {
		assert.True(t, status.IsValid(), "expected %q to be valid", status)
	}

	assert.False(t, models.ExecutionStatus("cancelled").IsValid())
	assert.False(t, models.ExecutionStatus("").IsValid())
}

func TestExecutionStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, models.ExecutionStatusPending.IsTerminal())
	assert.False(t, models.ExecutionStatusRunning.IsTerminal())
	assert.True(t, models.ExecutionStatusCompleted.IsTerminal())
	assert.True(t, models.ExecutionStatusFailed.IsTerminal())
}

func TestExecutionStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    models.ExecutionStatus
		to      models.ExecutionStatus
		allowed bool
	}{
		{"pending to running", models.ExecutionStatusPending, models.ExecutionStatusRunning, true},
		{"pending to completed", models.ExecutionStatusPending, models.ExecutionStatusCompleted, true},
		{"pending to failed", models.ExecutionStatusPending, models.ExecutionStatusFailed, true},
		{"running to completed", models.ExecutionStatusRunning, models.ExecutionStatusCompleted, true},
		{"running to failed", models.ExecutionStatusRunning, models.ExecutionStatusFailed, true},
		{"running to pending", models.ExecutionStatusRunning, models.ExecutionStatusPending, false},
		{"completed to running", models.ExecutionStatusCompleted, models.ExecutionStatusRunning, false},
		{"completed to failed", models.ExecutionStatusCompleted, models.ExecutionStatusFailed, false},
		{"failed to completed", models.ExecutionStatusFailed, models.ExecutionStatusCompleted, false},
		{"pending to pending", models.ExecutionStatusPending, models.ExecutionStatusPending, false},
		{"unknown source", models.ExecutionStatus("cancelled"), models.ExecutionStatusRunning, false},
		{"unknown target", models.ExecutionStatusPending, models.ExecutionStatus("paused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestExecution_InComposition(t *testing.T) {
	t.Parallel()

	standalone := &models.Execution{ID: "e1", WorkflowID: "w1"}
	assert.False(t, standalone.InComposition())

	compositionID := "c1"
	nodeID := "extract"
	member := &models.Execution{
		ID:            "e2",
		WorkflowID:    "w1",
		CompositionID: &compositionID,
		NodeID:        &nodeID,
	}
	assert.True(t, member.InComposition())
}
