package models

import "time"

// Product is one catalog entry (an ASIN in a marketplace) owned by a tenant.
type Product struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"       validate:"required"`
	ASIN        string    `json:"asin"        validate:"required,len=10"`
	SKU         string    `json:"sku"`
	Title       string    `json:"title"       validate:"required"`
	Brand       string    `json:"brand"`
	Marketplace string    `json:"marketplace" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
