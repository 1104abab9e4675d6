package models

import "time"

// GuideSection is one structured content block inside a build guide.
// Section bodies are free-form JSON validated against a schema on save.
type GuideSection struct {
	Heading string         `json:"heading" validate:"required"`
	Kind    string         `json:"kind"    validate:"required"` // text, steps, callout, video
	Body    map[string]any `json:"body"`
}

// Guide is a build-guide tutorial document served to the application UI.
type Guide struct {
	ID        string         `json:"id"`
	Slug      string         `json:"slug"     validate:"required"`
	Title     string         `json:"title"    validate:"required,min=3"`
	Category  string         `json:"category"`
	Sections  []GuideSection `json:"sections"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
