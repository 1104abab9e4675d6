package persistence

import "github.com/sellerkit/compass/pkg/models"

// CampaignSortField enumerates the columns a campaign search may sort on.
type CampaignSortField string

const (
	CampaignSortName        CampaignSortField = "name"
	CampaignSortCreatedAt   CampaignSortField = "created_at"
	CampaignSortUpdatedAt   CampaignSortField = "updated_at"
	CampaignSortDailyBudget CampaignSortField = "daily_budget"
)

// SortOrder is the direction of a sort specification.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// CampaignSearchOptions is the typed query specification for campaign
// search: every filter is optional and absent filters place no constraint.
// Backends translate it into parameterized queries, never by interpolating
// values into SQL text.
type CampaignSearchOptions struct {
	// Filtering
	Owner  string
	Query  string // Matched case-insensitively against the campaign name
	Brands []string
	States []models.CampaignState
	Types  []models.CampaignType

	// Sorting
	SortBy    CampaignSortField
	SortOrder SortOrder

	// Pagination
	Limit  int
	Offset int
}

// CampaignSearchResult carries one page of matches plus pagination metadata.
type CampaignSearchResult struct {
	Campaigns   []*models.Campaign `json:"campaigns"`
	TotalCount  int64              `json:"total_count"`
	HasNextPage bool               `json:"has_next_page"`
}
