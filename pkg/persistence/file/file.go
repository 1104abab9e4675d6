// Package file provides a file-based persistence implementation for local
// development and tests.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sellerkit/compass/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface on the file
// system. Each entity kind gets its own directory of one-JSON-file-per-record.
type Persistence struct {
	root            string
	workflowRepo    *WorkflowRepository
	compositionRepo *CompositionRepository
	executionRepo   *ExecutionRepository
	campaignRepo    *CampaignRepository
	catalogRepo     *CatalogRepository
	guideRepo       *GuideRepository
}

// NewPersistence creates a new instance of Persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	executionRepo := NewExecutionRepository(cleanRoot)
	workflowRepo := NewWorkflowRepository(cleanRoot)

	executionRepo.workflowSlug = workflowRepo.slugOf

	return &Persistence{
		root:            cleanRoot,
		workflowRepo:    workflowRepo,
		compositionRepo: NewCompositionRepository(cleanRoot, executionRepo),
		executionRepo:   executionRepo,
		campaignRepo:    NewCampaignRepository(cleanRoot),
		catalogRepo:     NewCatalogRepository(cleanRoot),
		guideRepo:       NewGuideRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying
// the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

func (fp *Persistence) CompositionRepository() persistence.CompositionRepository {
	return fp.compositionRepo
}

func (fp *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return fp.executionRepo
}

func (fp *Persistence) CampaignRepository() persistence.CampaignRepository {
	return fp.campaignRepo
}

func (fp *Persistence) CatalogRepository() persistence.CatalogRepository {
	return fp.catalogRepo
}

func (fp *Persistence) GuideRepository() persistence.GuideRepository {
	return fp.guideRepo
}

// validateID guards the IDs used to build file paths against traversal.
func validateID(id string) error {
	if id == "" {
		return errors.New("identifier cannot be empty")
	}

	if strings.Contains(id, "..") || strings.Contains(id, "/") || strings.Contains(id, "\\") {
		return errors.New("identifier contains invalid characters")
	}

	return nil
}

// writeDoc marshals value and writes it under dir/id.json, creating dir as needed.
func writeDoc(root, dir, id string, value any) error {
	if err := validateID(id); err != nil {
		return err
	}

	fullDir := filepath.Join(root, dir)

	err := os.MkdirAll(fullDir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", dir, err)
	}

	err = os.WriteFile(filepath.Join(fullDir, id+".json"), data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write %s record: %w", dir, err)
	}

	return nil
}

// readDoc unmarshals dir/id.json into out. Returns os.ErrNotExist when the
// record is absent.
func readDoc(root, dir, id string, out any) error {
	if err := validateID(id); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(root, dir, id+".json"))
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s record: %w", dir, err)
	}

	return nil
}

// listDocs invokes each for every JSON record under dir.
func listDocs(root, dir string, each func(data []byte) error) error {
	entries, err := os.ReadDir(filepath.Join(root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to list %s directory: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(root, dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s record: %w", dir, err)
		}

		if err := each(data); err != nil {
			return err
		}
	}

	return nil
}

// deleteDoc removes dir/id.json, tolerating records that are already gone.
func deleteDoc(root, dir, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(root, dir, id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s record: %w", dir, err)
	}

	return nil
}
