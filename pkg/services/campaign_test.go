package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence/file"
)

func seedCampaigns(t *testing.T, service *Campaign) {
	t.Helper()

	campaigns := []*models.Campaign{
		{Owner: "tenant-1", Name: "Spring Launch", Brand: "Acme", State: models.CampaignStateEnabled, Type: models.CampaignTypeSponsoredProducts, DailyBudget: 25},
		{Owner: "tenant-1", Name: "Summer Clearance", Brand: "Acme", State: models.CampaignStatePaused, Type: models.CampaignTypeSponsoredBrands, DailyBudget: 50},
		{Owner: "tenant-1", Name: "Brand Defense", Brand: "Globex", State: models.CampaignStateEnabled, Type: models.CampaignTypeSponsoredDisplay, DailyBudget: 10},
	}
	for _, c := range campaigns {
		_, err := service.Save(t.Context(), c)
		require.NoError(t, err)
	}
}

func TestCampaign_Search_DefaultsAndFilters(t *testing.T) {
	service := NewCampaign(file.NewPersistence(t.TempDir()))
	seedCampaigns(t, service)

	result, err := service.Search(t.Context(), SearchCampaignsRequest{Owner: "tenant-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.False(t, result.HasNextPage)

	result, err = service.Search(t.Context(), SearchCampaignsRequest{
		Owner:  "tenant-1",
		States: []string{"enabled"},
		Brands: []string{"Acme"},
	})
	require.NoError(t, err)
	require.Len(t, result.Campaigns, 1)
	assert.Equal(t, "Spring Launch", result.Campaigns[0].Name)
}

func TestCampaign_Search_LimitClamped(t *testing.T) {
	service := NewCampaign(file.NewPersistence(t.TempDir()))
	seedCampaigns(t, service)

	result, err := service.Search(t.Context(), SearchCampaignsRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, result.Campaigns, 1)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.True(t, result.HasNextPage)

	// An absurd limit is clamped rather than rejected.
	result, err = service.Search(t.Context(), SearchCampaignsRequest{Limit: 10000})
	require.NoError(t, err)
	assert.Len(t, result.Campaigns, 3)
}

func TestCampaign_Search_Validation(t *testing.T) {
	service := NewCampaign(file.NewPersistence(t.TempDir()))

	_, err := service.Search(t.Context(), SearchCampaignsRequest{SortBy: "daily_budget; DROP TABLE campaigns"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSortField)

	_, err = service.Search(t.Context(), SearchCampaignsRequest{SortOrder: "sideways"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSortOrder)

	_, err = service.Search(t.Context(), SearchCampaignsRequest{States: []string{"deleted"}})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = service.Search(t.Context(), SearchCampaignsRequest{Types: []string{"sponsored_tv"}})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestCampaign_Save_Validation(t *testing.T) {
	service := NewCampaign(file.NewPersistence(t.TempDir()))

	_, err := service.Save(t.Context(), &models.Campaign{Name: "No owner", State: models.CampaignStateEnabled, Type: models.CampaignTypeSponsoredProducts})
	assert.ErrorIs(t, err, ErrEmptyOwner)

	_, err = service.Save(t.Context(), &models.Campaign{Owner: "tenant-1", Name: "Bad state", State: "live", Type: models.CampaignTypeSponsoredProducts})
	assert.True(t, IsValidationError(err))
}
