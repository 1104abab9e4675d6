package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

// CampaignRepository handles campaign-related database operations.
type CampaignRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCampaignRepository creates a new campaign repository.
func NewCampaignRepository(db *sql.DB, logger *slog.Logger) *CampaignRepository {
	return &CampaignRepository{db: db, logger: logger}
}

// campaignSortColumns is the allowlist of sortable columns. Sort input is
// validated against it before being spliced into ORDER BY; filter values
// themselves only ever travel as query parameters.
var campaignSortColumns = map[persistence.CampaignSortField]string{
	persistence.CampaignSortName:        "name",
	persistence.CampaignSortCreatedAt:   "created_at",
	persistence.CampaignSortUpdatedAt:   "updated_at",
	persistence.CampaignSortDailyBudget: "daily_budget",
}

// GetByID returns a campaign by its ID, or nil when it does not exist.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := `
		SELECT id, owner, name, brand, state, type, daily_budget, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	campaign, err := r.scanCampaign(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}

	return campaign, nil
}

// Save upserts a campaign. UpdatedAt is always touched as part of the write.
func (r *CampaignRepository) Save(ctx context.Context, campaign *models.Campaign) error {
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

	query := `
		INSERT INTO campaigns (id, owner, name, brand, state, type, daily_budget, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			state = EXCLUDED.state,
			type = EXCLUDED.type,
			daily_budget = EXCLUDED.daily_budget,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		campaign.ID,
		campaign.Owner,
		campaign.Name,
		campaign.Brand,
		campaign.State,
		campaign.Type,
		campaign.DailyBudget,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	return nil
}

// Search assembles a parameterized query from the present predicates of the
// typed search specification and returns one page of matches with the total
// count of the full result set.
func (r *CampaignRepository) Search(ctx context.Context, opts persistence.CampaignSearchOptions) (*persistence.CampaignSearchResult, error) {
	sortColumn, ok := campaignSortColumns[opts.SortBy]
	if !ok {
		return nil, &persistence.CampaignError{
			Op:  "Search",
			Err: fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy),
		}
	}

	direction := "DESC"
	if opts.SortOrder == persistence.SortAsc {
		direction = "ASC"
	}

	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if opts.Owner != "" {
		addCondition("owner = $%d", opts.Owner)
	}

	if opts.Query != "" {
		addCondition("name ILIKE $%d", "%"+opts.Query+"%")
	}

	if len(opts.Brands) > 0 {
		addCondition("brand = ANY($%d)", pq.Array(opts.Brands))
	}

	if len(opts.States) > 0 {
		states := make([]string, len(opts.States))
		for i, state := range opts.States {
			states[i] = string(state)
		}

		addCondition("state = ANY($%d)", pq.Array(states))
	}

	if len(opts.Types) > 0 {
		types := make([]string, len(opts.Types))
		for i, campaignType := range opts.Types {
			types[i] = string(campaignType)
		}

		addCondition("type = ANY($%d)", pq.Array(types))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, owner, name, brand, state, type, daily_budget, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM campaigns
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, sortColumn, direction, len(args)+1, len(args)+2)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search campaigns: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	campaigns := make([]*models.Campaign, 0)

	var totalCount int64

	for rows.Next() {
		var campaign models.Campaign

		err := rows.Scan(
			&campaign.ID,
			&campaign.Owner,
			&campaign.Name,
			&campaign.Brand,
			&campaign.State,
			&campaign.Type,
			&campaign.DailyBudget,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}

		campaigns = append(campaigns, &campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %w", err)
	}

	// An empty page past the end of the result set loses the window count;
	// fall back to a dedicated count query so pagination metadata stays right.
	if len(campaigns) == 0 && opts.Offset > 0 {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM campaigns %s", whereClause)

		err := r.db.QueryRowContext(ctx, countQuery, args[:len(args)-2]...).Scan(&totalCount)
		if err != nil {
			return nil, fmt.Errorf("failed to count campaigns: %w", err)
		}
	}

	return &persistence.CampaignSearchResult{
		Campaigns:   campaigns,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(campaigns)) < totalCount,
	}, nil
}

func (r *CampaignRepository) scanCampaign(scanner interface {
	Scan(dest ...any) error
}) (*models.Campaign, error) {
	var campaign models.Campaign

	err := scanner.Scan(
		&campaign.ID,
		&campaign.Owner,
		&campaign.Name,
		&campaign.Brand,
		&campaign.State,
		&campaign.Type,
		&campaign.DailyBudget,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &campaign, nil
}
