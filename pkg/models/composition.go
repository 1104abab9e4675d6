package models

import "time"

// Composition is a named group of related executions forming a
// dependency-ordered workflow graph. Executions reference their composition
// by ID; when a composition is deleted its executions are orphaned back to
// standalone (composition_id, node_id and execution_order reset to null),
// never left dangling.
type Composition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Owner       string         `json:"owner"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
