package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

func setupPersistence(t *testing.T) *Persistence {
	t.Helper()

	return NewPersistence(t.TempDir())
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func seedWorkflow(t *testing.T, p *Persistence, slug string) *models.Workflow {
	t.Helper()

	workflow := &models.Workflow{
		Name:   "Workflow " + slug,
		Slug:   slug,
		Status: models.WorkflowStatusPublished,
	}
	require.NoError(t, p.WorkflowRepository().Save(context.Background(), workflow))

	return workflow
}

func TestWorkflowRepository_SoftDelete(t *testing.T) {
	p := setupPersistence(t)
	ctx := context.Background()

	workflow := seedWorkflow(t, p, "asin-refresh")

	require.NoError(t, p.WorkflowRepository().Delete(ctx, workflow.ID))

	got, err := p.WorkflowRepository().GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := p.WorkflowRepository().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestExecutionRepository_ListByCompositionOrdering(t *testing.T) {
	p := setupPersistence(t)
	ctx := context.Background()

	workflow := seedWorkflow(t, p, "campaign-sync")

	composition := &models.Composition{Name: "Nightly refresh", Owner: "tenant-1"}
	require.NoError(t, p.CompositionRepository().Save(ctx, composition))

	base := time.Now().UTC().Add(-time.Hour)

	// Orders 3, null, 1, null. Expected listing: 1, 3, then the two
	// unordered executions by creation time.
	seed := []struct {
		id    string
		order *int
		at    time.Time
	}{
		{"exec-a", intPtr(3), base},
		{"exec-b", nil, base.Add(2 * time.Minute)},
		{"exec-c", intPtr(1), base.Add(3 * time.Minute)},
		{"exec-d", nil, base.Add(1 * time.Minute)},
	}

	for _, s := range seed {
		execution := &models.Execution{
			ID:             s.id,
			WorkflowID:     workflow.ID,
			CompositionID:  &composition.ID,
			NodeID:         strPtr("node-" + s.id),
			ExecutionOrder: s.order,
			Status:         models.ExecutionStatusPending,
			CreatedAt:      s.at,
		}
		require.NoError(t, p.ExecutionRepository().Save(ctx, execution))
	}

	executions, err := p.ExecutionRepository().ListByComposition(ctx, composition.ID)
	require.NoError(t, err)
	require.Len(t, executions, 4)

	ids := []string{executions[0].ID, executions[1].ID, executions[2].ID, executions[3].ID}
	assert.Equal(t, []string{"exec-c", "exec-a", "exec-d", "exec-b"}, ids)

	details, err := p.ExecutionRepository().ListDetailsByComposition(ctx, composition.ID)
	require.NoError(t, err)
	require.Len(t, details, 4)
	assert.Equal(t, "exec-c", details[0].ExecutionID)
	assert.Equal(t, "campaign-sync", details[0].WorkflowSlug)
}

func TestCompositionRepository_DeleteOrphansExecutions(t *testing.T) {
	p := setupPersistence(t)
	ctx := context.Background()

	workflow := seedWorkflow(t, p, "sales-report")

	composition := &models.Composition{Name: "Weekly build", Owner: "tenant-1"}
	require.NoError(t, p.CompositionRepository().Save(ctx, composition))

	execution := &models.Execution{
		WorkflowID:     workflow.ID,
		CompositionID:  &composition.ID,
		NodeID:         strPtr("node-1"),
		ExecutionOrder: intPtr(1),
		Status:         models.ExecutionStatusRunning,
	}
	require.NoError(t, p.ExecutionRepository().Save(ctx, execution))

	require.NoError(t, p.CompositionRepository().Delete(ctx, composition.ID))

	got, err := p.CompositionRepository().GetByID(ctx, composition.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	orphaned, err := p.ExecutionRepository().GetByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Nil(t, orphaned.CompositionID)
	assert.Nil(t, orphaned.NodeID)
	assert.Nil(t, orphaned.ExecutionOrder)
	assert.Equal(t, models.ExecutionStatusRunning, orphaned.Status)

	executions, err := p.ExecutionRepository().ListByComposition(ctx, composition.ID)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestCampaignRepository_Search(t *testing.T) {
	p := setupPersistence(t)
	ctx := context.Background()

	campaigns := []*models.Campaign{
		{Owner: "tenant-1", Name: "Spring Launch", Brand: "Acme", State: models.CampaignStateEnabled, Type: models.CampaignTypeSponsoredProducts, DailyBudget: 25},
		{Owner: "tenant-1", Name: "Summer Clearance", Brand: "Acme", State: models.CampaignStatePaused, Type: models.CampaignTypeSponsoredBrands, DailyBudget: 50},
		{Owner: "tenant-2", Name: "Spring Promo", Brand: "Globex", State: models.CampaignStateEnabled, Type: models.CampaignTypeSponsoredProducts, DailyBudget: 10},
	}
	for _, c := range campaigns {
		require.NoError(t, p.CampaignRepository().Save(ctx, c))
	}

	t.Run("filters by owner and query", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			Owner: "tenant-1",
			Query: "spring",
		})
		require.NoError(t, err)
		require.Len(t, result.Campaigns, 1)
		assert.Equal(t, "Spring Launch", result.Campaigns[0].Name)
		assert.Equal(t, int64(1), result.TotalCount)
		assert.False(t, result.HasNextPage)
	})

	t.Run("sorts by daily budget descending with pagination", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			SortBy:    persistence.CampaignSortDailyBudget,
			SortOrder: persistence.SortDesc,
			Limit:     2,
		})
		require.NoError(t, err)
		require.Len(t, result.Campaigns, 2)
		assert.Equal(t, "Summer Clearance", result.Campaigns[0].Name)
		assert.Equal(t, "Spring Launch", result.Campaigns[1].Name)
		assert.Equal(t, int64(3), result.TotalCount)
		assert.True(t, result.HasNextPage)
	})

	t.Run("rejects disallowed sort fields", func(t *testing.T) {
		_, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			SortBy: "daily_budget; DROP TABLE campaigns",
		})
		require.Error(t, err)
		assert.True(t, persistence.IsInvalidSortField(err))
	})
}

func TestGuideRepository_SaveAndList(t *testing.T) {
	p := setupPersistence(t)
	ctx := context.Background()

	guide := &models.Guide{
		Slug:     "getting-started",
		Title:    "Getting Started",
		Category: "onboarding",
		Sections: []models.GuideSection{
			{Heading: "Welcome", Kind: "text", Body: map[string]any{"text": "Hello"}},
		},
		Published: true,
	}
	require.NoError(t, p.GuideRepository().Save(ctx, guide))

	draft := &models.Guide{Slug: "advanced-tuning", Title: "Advanced Tuning"}
	require.NoError(t, p.GuideRepository().Save(ctx, draft))

	got, err := p.GuideRepository().GetBySlug(ctx, "getting-started")
	require.NoError(t, err)
	assert.Equal(t, "Getting Started", got.Title)

	// Upsert on slug keeps identity
	guide.Title = "Getting Started (v2)"
	require.NoError(t, p.GuideRepository().Save(ctx, guide))

	updated, err := p.GuideRepository().GetBySlug(ctx, "getting-started")
	require.NoError(t, err)
	assert.Equal(t, got.ID, updated.ID)
	assert.Equal(t, "Getting Started (v2)", updated.Title)

	published, err := p.GuideRepository().ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "getting-started", published[0].Slug)
}
