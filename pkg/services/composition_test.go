package services

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerkit/compass/pkg/channels/gochannel"
	"github.com/sellerkit/compass/pkg/eventbus"
	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
	"github.com/sellerkit/compass/pkg/persistence/file"
)

type testEnv struct {
	persistence persistence.Persistence
	bus         eventbus.EventBus
	composition *Composition
	execution   *Execution
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(nil))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	return &testEnv{
		persistence: p,
		bus:         bus,
		composition: NewComposition(p, bus),
		execution:   NewExecution(p, bus),
	}
}

func (e *testEnv) seedWorkflow(t *testing.T, slug string) *models.Workflow {
	t.Helper()

	workflow := &models.Workflow{
		Name:   "Workflow " + slug,
		Slug:   slug,
		Status: models.WorkflowStatusPublished,
	}
	require.NoError(t, e.persistence.WorkflowRepository().Save(context.Background(), workflow))

	return workflow
}

func (e *testEnv) seedComposition(t *testing.T, name string) *models.Composition {
	t.Helper()

	composition := &models.Composition{Name: name, Owner: "tenant-1"}
	require.NoError(t, e.persistence.CompositionRepository().Save(context.Background(), composition))

	return composition
}

func (e *testEnv) seedExecution(t *testing.T, workflowID, compositionID string, status models.ExecutionStatus, order *int) *models.Execution {
	t.Helper()

	nodeID := "node-" + watermill.NewShortUUID()
	execution := &models.Execution{
		WorkflowID:     workflowID,
		CompositionID:  &compositionID,
		NodeID:         &nodeID,
		ExecutionOrder: order,
		Status:         status,
	}
	require.NoError(t, e.persistence.ExecutionRepository().Save(context.Background(), execution))

	return execution
}

func orderPtr(v int) *int { return &v }

func TestComposition_Summarize_Empty(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.composition.Summarize(t.Context(), "no-such-composition")
	require.NoError(t, err)

	assert.Equal(t, models.OverallStatusNotStarted, summary.OverallStatus)
	assert.Equal(t, 0, summary.TotalExecutions)
	assert.Equal(t, 0, summary.CompletedCount)
	assert.Equal(t, 0, summary.FailedCount)
	assert.Equal(t, 0, summary.RunningCount)
	assert.Equal(t, 0, summary.PendingCount)
	assert.Nil(t, summary.FirstStart)
	assert.Nil(t, summary.LastUpdate)
}

func TestComposition_Summarize_AllCompleted(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "asin-refresh")
	composition := env.seedComposition(t, "Nightly refresh")

	for i := 1; i <= 3; i++ {
		env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusCompleted, orderPtr(i))
	}

	summary, err := env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OverallStatusCompleted, summary.OverallStatus)
	assert.Equal(t, 3, summary.TotalExecutions)
	assert.Equal(t, 3, summary.CompletedCount)
	assert.NotNil(t, summary.FirstStart)
	assert.NotNil(t, summary.LastUpdate)
}

func TestComposition_Summarize_RunningTakesPriority(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "campaign-sync")
	composition := env.seedComposition(t, "Weekly build")

	// Live work wins over any number of terminal executions.
	env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusCompleted, orderPtr(1))
	env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusFailed, orderPtr(2))
	env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusPending, orderPtr(3))

	summary, err := env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OverallStatusRunning, summary.OverallStatus)

	env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusRunning, orderPtr(4))

	summary, err = env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OverallStatusRunning, summary.OverallStatus)
}

func TestComposition_Summarize_FailedBeatsCompleted(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "sales-report")
	composition := env.seedComposition(t, "Monthly close")

	env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusCompleted, orderPtr(1))
	env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusFailed, orderPtr(2))

	summary, err := env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OverallStatusFailed, summary.OverallStatus)
	assert.Equal(t, 2, summary.TotalExecutions)
	assert.Equal(t, 1, summary.CompletedCount)
	assert.Equal(t, 1, summary.FailedCount)
}

func TestComposition_Summarize_CountsSumToTotal(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "inventory-pull")
	composition := env.seedComposition(t, "Mixed batch")

	statuses := []models.ExecutionStatus{
		models.ExecutionStatusPending,
		models.ExecutionStatusRunning,
		models.ExecutionStatusRunning,
		models.ExecutionStatusCompleted,
		models.ExecutionStatusFailed,
	}
	for _, status := range statuses {
		env.seedExecution(t, workflow.ID, composition.ID, status, nil)
	}

	summary, err := env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)

	sum := summary.CompletedCount + summary.FailedCount + summary.RunningCount + summary.PendingCount
	assert.Equal(t, summary.TotalExecutions, sum)
	assert.Equal(t, 5, summary.TotalExecutions)
}

func TestComposition_Summarize_Timestamps(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "price-watch")
	composition := env.seedComposition(t, "Timestamp batch")

	early := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	late := time.Now().UTC().Add(-1 * time.Hour).Truncate(time.Second)

	for _, createdAt := range []time.Time{late, early} {
		nodeID := "node-" + watermill.NewShortUUID()
		execution := &models.Execution{
			WorkflowID:    workflow.ID,
			CompositionID: &composition.ID,
			NodeID:        &nodeID,
			Status:        models.ExecutionStatusRunning,
			CreatedAt:     createdAt,
		}
		require.NoError(t, env.persistence.ExecutionRepository().Save(t.Context(), execution))
	}

	summary, err := env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)

	require.NotNil(t, summary.FirstStart)
	assert.True(t, summary.FirstStart.Equal(early))
	require.NotNil(t, summary.LastUpdate)
	assert.False(t, summary.LastUpdate.Before(*summary.FirstStart))
}

func TestComposition_Detail_Ordering(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "report-build")
	composition := env.seedComposition(t, "Ordered batch")

	base := time.Now().UTC().Add(-time.Hour)

	seed := []struct {
		node  string
		order *int
		at    time.Time
	}{
		{"node-three", orderPtr(3), base},
		{"node-null-late", nil, base.Add(2 * time.Minute)},
		{"node-one", orderPtr(1), base.Add(3 * time.Minute)},
		{"node-null-early", nil, base.Add(1 * time.Minute)},
	}

	for _, s := range seed {
		node := s.node
		execution := &models.Execution{
			WorkflowID:     workflow.ID,
			CompositionID:  &composition.ID,
			NodeID:         &node,
			ExecutionOrder: s.order,
			Status:         models.ExecutionStatusPending,
			CreatedAt:      s.at,
		}
		require.NoError(t, env.persistence.ExecutionRepository().Save(t.Context(), execution))
	}

	details, err := env.composition.Detail(t.Context(), composition.ID)
	require.NoError(t, err)
	require.Len(t, details, 4)

	got := make([]string, 0, len(details))
	for _, d := range details {
		got = append(got, *d.NodeID)
	}

	assert.Equal(t, []string{"node-one", "node-three", "node-null-early", "node-null-late"}, got)
	assert.Equal(t, "report-build", details[0].WorkflowSlug)
}

func TestComposition_Summarize_OrphaningBetweenCalls(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "orphan-check")
	composition := env.seedComposition(t, "Orphan batch")

	execution := env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusRunning, orderPtr(1))

	summary, err := env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalExecutions)

	// The runner detaches the execution externally between the two calls.
	execution.CompositionID = nil
	execution.NodeID = nil
	execution.ExecutionOrder = nil
	require.NoError(t, env.persistence.ExecutionRepository().Save(t.Context(), execution))

	summary, err = env.composition.Summarize(t.Context(), composition.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalExecutions)
	assert.Equal(t, models.OverallStatusNotStarted, summary.OverallStatus)
}

func TestComposition_Delete_OrphansExecutions(t *testing.T) {
	env := newTestEnv(t)
	workflow := env.seedWorkflow(t, "delete-check")
	composition := env.seedComposition(t, "Doomed batch")

	execution := env.seedExecution(t, workflow.ID, composition.ID, models.ExecutionStatusCompleted, orderPtr(1))

	require.NoError(t, env.composition.Delete(t.Context(), composition.ID))

	_, err := env.composition.FetchByID(t.Context(), composition.ID)
	assert.True(t, persistence.IsCompositionNotFound(err))

	orphaned, err := env.persistence.ExecutionRepository().GetByID(t.Context(), execution.ID)
	require.NoError(t, err)
	assert.Nil(t, orphaned.CompositionID)
	assert.Nil(t, orphaned.NodeID)
	assert.Nil(t, orphaned.ExecutionOrder)
}

func TestComposition_Create_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.composition.Create(t.Context(), &models.Composition{Owner: "tenant-1"})
	assert.True(t, IsValidationError(err))

	_, err = env.composition.Create(t.Context(), &models.Composition{Name: "No owner"})
	assert.True(t, IsValidationError(err))

	created, err := env.composition.Create(t.Context(), &models.Composition{Name: "Valid", Owner: "tenant-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}
