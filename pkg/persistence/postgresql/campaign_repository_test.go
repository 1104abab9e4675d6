package postgresql_test

import (
	"testing"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
	"github.com/sellerkit/compass/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignRepository_Search(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	campaigns := []*models.Campaign{
		testutil.CreateTestCampaign(func(c *models.Campaign) {
			c.Name = "Spring Sale - Widgets"
			c.Brand = "Acme"
			c.State = models.CampaignStateEnabled
			c.Type = models.CampaignTypeSponsoredProducts
			c.DailyBudget = 25
		}),
		testutil.CreateTestCampaign(func(c *models.Campaign) {
			c.Name = "Brand Awareness Q2"
			c.Brand = "Acme"
			c.State = models.CampaignStatePaused
			c.Type = models.CampaignTypeSponsoredBrands
			c.DailyBudget = 80
		}),
		testutil.CreateTestCampaign(func(c *models.Campaign) {
			c.Name = "Clearance - Gizmos"
			c.Brand = "Globex"
			c.State = models.CampaignStateEnabled
			c.Type = models.CampaignTypeSponsoredDisplay
			c.DailyBudget = 10
		}),
		testutil.CreateTestCampaign(func(c *models.Campaign) {
			c.Name = "Old Holiday Push"
			c.Brand = "Globex"
			c.State = models.CampaignStateArchived
			c.Type = models.CampaignTypeSponsoredProducts
			c.DailyBudget = 50
			c.Owner = "tenant-2"
		}),
	}

	for _, campaign := range campaigns {
		require.NoError(t, p.CampaignRepository().Save(ctx, campaign))
	}

	t.Run("no filters returns everything", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			SortBy:    persistence.CampaignSortCreatedAt,
			SortOrder: persistence.SortDesc,
			Limit:     20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.TotalCount)
		assert.Len(t, result.Campaigns, 4)
		assert.False(t, result.HasNextPage)
	})

	t.Run("text query matches name case-insensitively", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			Query:     "spring",
			SortBy:    persistence.CampaignSortCreatedAt,
			SortOrder: persistence.SortDesc,
			Limit:     20,
		})
		require.NoError(t, err)
		require.Len(t, result.Campaigns, 1)
		assert.Equal(t, "Spring Sale - Widgets", result.Campaigns[0].Name)
	})

	t.Run("brand and state sets combine", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			Brands:    []string{"Acme"},
			States:    []models.CampaignState{models.CampaignStateEnabled, models.CampaignStatePaused},
			SortBy:    persistence.CampaignSortName,
			SortOrder: persistence.SortAsc,
			Limit:     20,
		})
		require.NoError(t, err)
		require.Len(t, result.Campaigns, 2)
		assert.Equal(t, "Brand Awareness Q2", result.Campaigns[0].Name)
		assert.Equal(t, "Spring Sale - Widgets", result.Campaigns[1].Name)
	})

	t.Run("type filter", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			Types:     []models.CampaignType{models.CampaignTypeSponsoredDisplay},
			SortBy:    persistence.CampaignSortCreatedAt,
			SortOrder: persistence.SortDesc,
			Limit:     20,
		})
		require.NoError(t, err)
		require.Len(t, result.Campaigns, 1)
		assert.Equal(t, "Clearance - Gizmos", result.Campaigns[0].Name)
	})

	t.Run("owner filter scopes tenants", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			Owner:     "tenant-2",
			SortBy:    persistence.CampaignSortCreatedAt,
			SortOrder: persistence.SortDesc,
			Limit:     20,
		})
		require.NoError(t, err)
		require.Len(t, result.Campaigns, 1)
		assert.Equal(t, "Old Holiday Push", result.Campaigns[0].Name)
	})

	t.Run("sort by daily budget descending", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			SortBy:    persistence.CampaignSortDailyBudget,
			SortOrder: persistence.SortDesc,
			Limit:     2,
		})
		require.NoError(t, err)
		require.Len(t, result.Campaigns, 2)
		assert.Equal(t, float64(80), result.Campaigns[0].DailyBudget)
		assert.Equal(t, float64(50), result.Campaigns[1].DailyBudget)
		assert.Equal(t, int64(4), result.TotalCount)
		assert.True(t, result.HasNextPage)
	})

	t.Run("offset past the end keeps total count", func(t *testing.T) {
		result, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			SortBy:    persistence.CampaignSortCreatedAt,
			SortOrder: persistence.SortDesc,
			Limit:     20,
			Offset:    10,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Campaigns)
		assert.Equal(t, int64(4), result.TotalCount)
		assert.False(t, result.HasNextPage)
	})

	t.Run("disallowed sort field is rejected", func(t *testing.T) {
		_, err := p.CampaignRepository().Search(ctx, persistence.CampaignSearchOptions{
			SortBy: persistence.CampaignSortField("daily_budget; DROP TABLE campaigns"),
			Limit:  20,
		})
		require.Error(t, err)
		assert.True(t, persistence.IsInvalidSortField(err))
	})
}
