package persistence_test

import (
	"errors"
	"testing"

	"github.com/sellerkit/compass/pkg/persistence"
	"github.com/stretchr/testify/assert"
)

func TestExecutionError_WrapsSentinel(t *testing.T) {
	t.Parallel()

	err := persistence.NewExecutionError("GetByID", "exec-1", persistence.ErrExecutionNotFound)

	assert.True(t, errors.Is(err, persistence.ErrExecutionNotFound))
	assert.True(t, persistence.IsExecutionNotFound(err))
	assert.Contains(t, err.Error(), "GetByID")
	assert.Contains(t, err.Error(), "exec-1")
}

func TestCompositionExecutionError_TargetsComposition(t *testing.T) {
	t.Parallel()

	err := persistence.NewCompositionExecutionError("ListByComposition", "comp-7", errors.New("connection refused"))

	assert.Contains(t, err.Error(), "composition comp-7")
	assert.False(t, persistence.IsExecutionNotFound(err))
}

func TestCampaignError_Is(t *testing.T) {
	t.Parallel()

	err := &persistence.CampaignError{
		Op:         "Search",
		CampaignID: "camp-1",
		Err:        persistence.ErrInvalidSortField,
	}

	assert.True(t, persistence.IsInvalidSortField(err))
	assert.Contains(t, err.Error(), "Search")
}
