package models

import "time"

// CampaignState represents the serving state of an advertising campaign.
type CampaignState string

const (
	CampaignStateEnabled  CampaignState = "enabled"
	CampaignStatePaused   CampaignState = "paused"
	CampaignStateArchived CampaignState = "archived"
)

// CampaignType represents the advertising product a campaign belongs to.
type CampaignType string

const (
	CampaignTypeSponsoredProducts CampaignType = "sponsored_products"
	CampaignTypeSponsoredBrands   CampaignType = "sponsored_brands"
	CampaignTypeSponsoredDisplay  CampaignType = "sponsored_display"
)

// Campaign represents one advertising campaign in a tenant's account.
type Campaign struct {
	ID          string        `json:"id"`
	Owner       string        `json:"owner"        validate:"required"`
	Name        string        `json:"name"         validate:"required,min=1"`
	Brand       string        `json:"brand"`
	State       CampaignState `json:"state"        validate:"required"`
	Type        CampaignType  `json:"type"         validate:"required"`
	DailyBudget float64       `json:"daily_budget"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
