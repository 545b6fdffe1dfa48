// Package products implements the skincare product catalog for Lumen,
// including condition-based recommendation lookup.
package products

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog entry. TargetConditions holds the display-form
// condition names the product addresses (for example "Dark Circles").
type Product struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Brand            string    `json:"brand"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	TargetConditions []string  `json:"target_conditions"`
	PriceCents       int       `json:"price_cents"`
	ImageURL         *string   `json:"image_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
