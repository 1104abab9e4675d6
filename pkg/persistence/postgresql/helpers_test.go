package postgresql_test

import (
	"testing"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/testutil"
)

func createTestWorkflow(t *testing.T) *models.Workflow {
	t.Helper()

	return testutil.CreateTestWorkflow()
}

func createTestComposition(t *testing.T) *models.Composition {
	t.Helper()

	return testutil.CreateTestComposition()
}
