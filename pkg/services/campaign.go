package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchCampaignsRequest contains options for searching campaigns.
type SearchCampaignsRequest struct {
	// Filtering
	Owner  string
	Query  string
	Brands []string
	States []string
	Types  []string

	// Sorting
	SortBy    string `validate:"omitempty,oneof=name created_at updated_at daily_budget"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`

	// Pagination
	Limit  int `validate:"min=0,max=100"`
	Offset int `validate:"min=0"`
}

// SearchCampaignsResponse contains one page of matches.
type SearchCampaignsResponse struct {
	Campaigns   []*models.Campaign `json:"campaigns"`
	TotalCount  int64              `json:"total_count"`
	HasNextPage bool               `json:"has_next_page"`
}

// Campaign handles campaign search and retrieval.
type Campaign struct {
	persistence persistence.Persistence
}

// NewCampaign creates a new campaign service.
func NewCampaign(persistence persistence.Persistence) *Campaign {
	return &Campaign{
		persistence: persistence,
	}
}

// FetchByID returns a campaign by ID.
func (c *Campaign) FetchByID(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := c.persistence.CampaignRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if campaign == nil {
		return nil, persistence.ErrCampaignNotFound
	}

	return campaign, nil
}

// Save validates and persists a campaign record.
func (c *Campaign) Save(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	if campaign.Owner == "" {
		return nil, NewValidationError("Save", "OWNER_REQUIRED", "campaign owner is required", ErrEmptyOwner)
	}

	if campaign.Name == "" {
		return nil, NewValidationError("Save", "NAME_REQUIRED", "campaign name is required", ErrInvalidRequest)
	}

	if !validCampaignState(campaign.State) {
		return nil, NewValidationError("Save", "INVALID_STATE",
			fmt.Sprintf("unknown campaign state %q", campaign.State), ErrInvalidRequest)
	}

	if !validCampaignType(campaign.Type) {
		return nil, NewValidationError("Save", "INVALID_TYPE",
			fmt.Sprintf("unknown campaign type %q", campaign.Type), ErrInvalidRequest)
	}

	if err := c.persistence.CampaignRepository().Save(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to save campaign: %w", err)
	}

	return campaign, nil
}

// Search validates the request, applies defaults and runs the query through
// the storage layer's typed query specification.
func (c *Campaign) Search(ctx context.Context, req SearchCampaignsRequest) (*SearchCampaignsResponse, error) {
	opts, err := c.buildSearchOptions(&req)
	if err != nil {
		return nil, err
	}

	result, err := c.persistence.CampaignRepository().Search(ctx, *opts)
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, ErrInvalidSortField
		}

		return nil, fmt.Errorf("failed to search campaigns: %w", err)
	}

	return &SearchCampaignsResponse{
		Campaigns:   result.Campaigns,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

func (c *Campaign) buildSearchOptions(req *SearchCampaignsRequest) (*persistence.CampaignSearchOptions, error) {
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	if req.Limit > maxSearchLimit {
		req.Limit = maxSearchLimit
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = string(persistence.CampaignSortCreatedAt)
	}

	if req.SortOrder == "" {
		req.SortOrder = string(persistence.SortDesc)
	}

	allowedSorts := []string{
		string(persistence.CampaignSortName),
		string(persistence.CampaignSortCreatedAt),
		string(persistence.CampaignSortUpdatedAt),
		string(persistence.CampaignSortDailyBudget),
	}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return nil, NewValidationError(
			"Search",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field %q, allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != string(persistence.SortAsc) && req.SortOrder != string(persistence.SortDesc) {
		return nil, NewValidationError(
			"Search",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order %q, allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	states := make([]models.CampaignState, 0, len(req.States))

	for _, s := range req.States {
		state := models.CampaignState(s)
		if !validCampaignState(state) {
			return nil, NewValidationError("Search", "INVALID_STATE",
				fmt.Sprintf("unknown campaign state %q", s), ErrInvalidRequest)
		}

		states = append(states, state)
	}

	types := make([]models.CampaignType, 0, len(req.Types))

	for _, t := range req.Types {
		campaignType := models.CampaignType(t)
		if !validCampaignType(campaignType) {
			return nil, NewValidationError("Search", "INVALID_TYPE",
				fmt.Sprintf("unknown campaign type %q", t), ErrInvalidRequest)
		}

		types = append(types, campaignType)
	}

	return &persistence.CampaignSearchOptions{
		Owner:     req.Owner,
		Query:     req.Query,
		Brands:    req.Brands,
		States:    states,
		Types:     types,
		SortBy:    persistence.CampaignSortField(req.SortBy),
		SortOrder: persistence.SortOrder(req.SortOrder),
		Limit:     req.Limit,
		Offset:    req.Offset,
	}, nil
}

func validCampaignState(state models.CampaignState) bool {
	switch state {
	case models.CampaignStateEnabled, models.CampaignStatePaused, models.CampaignStateArchived:
		return true
	default:
		return false
	}
}

func validCampaignType(campaignType models.CampaignType) bool {
	switch campaignType {
	case models.CampaignTypeSponsoredProducts, models.CampaignTypeSponsoredBrands, models.CampaignTypeSponsoredDisplay:
		return true
	default:
		return false
	}
}
