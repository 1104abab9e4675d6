package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

const campaignsDir = "campaigns"

// CampaignRepository handles campaign-related file operations.
type CampaignRepository struct {
	root string
}

// NewCampaignRepository creates a new campaign repository.
func NewCampaignRepository(root string) *CampaignRepository {
	return &CampaignRepository{root: root}
}

// GetByID returns a campaign by its ID, or nil when it does not exist.
func (cr *CampaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign

	err := readDoc(cr.root, campaignsDir, id, &campaign)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read campaign %s: %w", id, err)
	}

	return &campaign, nil
}

// Save upserts a campaign, touching UpdatedAt.
func (cr *CampaignRepository) Save(ctx context.Context, campaign *models.Campaign) error {
	now := time.Now().UTC()

	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}

	campaign.UpdatedAt = now

	if campaign.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate campaign ID: %w", err)
		}

		campaign.ID = id.String()
	}

	return writeDoc(cr.root, campaignsDir, campaign.ID, campaign)
}

// campaignLess builds the comparator for an allowed sort field. Fields
// outside the map are rejected before any records are read.
var campaignLess = map[persistence.CampaignSortField]func(a, b *models.Campaign) bool{
	persistence.CampaignSortName: func(a, b *models.Campaign) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	},
	persistence.CampaignSortCreatedAt: func(a, b *models.Campaign) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	},
	persistence.CampaignSortUpdatedAt: func(a, b *models.Campaign) bool {
		return a.UpdatedAt.Before(b.UpdatedAt)
	},
	persistence.CampaignSortDailyBudget: func(a, b *models.Campaign) bool {
		return a.DailyBudget < b.DailyBudget
	},
}

// Search filters, sorts and paginates campaigns in memory.
func (cr *CampaignRepository) Search(ctx context.Context, opts persistence.CampaignSearchOptions) (*persistence.CampaignSearchResult, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = persistence.CampaignSortCreatedAt
	}

	less, ok := campaignLess[sortBy]
	if !ok {
		return nil, &persistence.CampaignError{
			Op:  "Search",
			Err: fmt.Errorf("sort field %q: %w", opts.SortBy, persistence.ErrInvalidSortField),
		}
	}

	matches := make([]*models.Campaign, 0)

	err := listDocs(cr.root, campaignsDir, func(data []byte) error {
		var campaign models.Campaign

		if err := json.Unmarshal(data, &campaign); err != nil {
			return fmt.Errorf("failed to unmarshal campaign: %w", err)
		}

		if campaignMatches(&campaign, opts) {
			matches = append(matches, &campaign)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if opts.SortOrder == persistence.SortDesc {
			return less(matches[j], matches[i])
		}

		return less(matches[i], matches[j])
	})

	total := int64(len(matches))

	start := opts.Offset
	if start > len(matches) {
		start = len(matches)
	}

	end := len(matches)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return &persistence.CampaignSearchResult{
		Campaigns:   matches[start:end],
		TotalCount:  total,
		HasNextPage: int64(end) < total,
	}, nil
}

func campaignMatches(campaign *models.Campaign, opts persistence.CampaignSearchOptions) bool {
	if opts.Owner != "" && campaign.Owner != opts.Owner {
		return false
	}

	if opts.Query != "" && !strings.Contains(strings.ToLower(campaign.Name), strings.ToLower(opts.Query)) {
		return false
	}

	if len(opts.Brands) > 0 && !slices.Contains(opts.Brands, campaign.Brand) {
		return false
	}

	if len(opts.States) > 0 && !slices.Contains(opts.States, campaign.State) {
		return false
	}

	if len(opts.Types) > 0 && !slices.Contains(opts.Types, campaign.Type) {
		return false
	}

	return true
}
