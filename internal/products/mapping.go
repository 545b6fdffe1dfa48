package products

import (
	"encoding/json"
	"net/url"

	"github.com/lumenlabs/lumen/consensus"
	"github.com/lumenlabs/lumen/pkg/query"
	"github.com/lumenlabs/lumen/pkg/repository"
)

// conditionTargets maps a detected condition label to the product target
// conditions worth recommending for it. Labels absent from the map produce
// no condition-specific matches and fall through to general products.
var conditionTargets = map[string][]string{
	"eye_bags":      {"Eye Bags", "Dark Circles", "Puffiness"},
	"dark_circles":  {"Dark Circles", "Eye Bags", "Puffiness"},
	"hormonal_acne": {"Acne", "Oily Skin", "Blackheads"},
	"acne":          {"Acne", "Oily Skin", "Blackheads"},
	"dark_spots":    {"Dark Spots", "Hyperpigmentation", "Uneven Skin Tone"},
	"wrinkles":      {"Wrinkles", "Fine Lines", "Aging Skin"},
	"dry_skin":      {"Dry Skin", "Sensitive Skin"},
	"oily_skin":     {"Oily Skin", "Large Pores", "Acne"},
	"healthy":       {"Healthy Skin", "Sunscreen"},
}

// generalTarget marks products suitable for any skin type, used to backfill
// recommendations when condition-specific matches run short.
const generalTarget = "Healthy Skin"

var projection = query.
	NewProjectionMap("public", "products", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("brand", "Brand").
	Project("category", "Category").
	Project("description", "Description").
	Project("target_conditions", "TargetConditions").
	Project("price_cents", "PriceCents").
	Project("image_url", "ImageURL").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for product queries.
// Nil fields are ignored. Category and Brand use exact matching; Name uses
// case-insensitive contains matching.
type Filters struct {
	Name     *string `json:"name,omitempty"`
	Brand    *string `json:"brand,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("Brand", f.Brand).
		WhereEquals("Category", f.Category)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if b := values.Get("brand"); b != "" {
		f.Brand = &b
	}

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	return f
}

func scanProduct(s repository.Scanner) (Product, error) {
	var (
		p       Product
		targets []byte
	)

	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.Category,
		&p.Description,
		&targets,
		&p.PriceCents,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	if len(targets) > 0 {
		if err := json.Unmarshal(targets, &p.TargetConditions); err != nil {
			return p, err
		}
	}

	return p, nil
}

// matchProducts selects up to limit products for the given condition label.
// Condition-specific matches come first; general products backfill the
// remainder, mirroring how recommendations behave when a condition has few
// dedicated products.
func matchProducts(catalog []Product, condition string, limit int) []Product {
	targets := conditionTargets[consensus.NormalizeLabel(condition)]

	matched := make([]Product, 0, limit)
	matchedIDs := make(map[string]bool)

	for _, p := range catalog {
		if overlaps(p.TargetConditions, targets) {
			matched = append(matched, p)
			matchedIDs[p.ID.String()] = true
		}
	}

	if len(matched) < limit {
		for _, p := range catalog {
			if matchedIDs[p.ID.String()] {
				continue
			}
			if overlaps(p.TargetConditions, []string{generalTarget}) {
				matched = append(matched, p)
			}
		}
	}

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

func overlaps(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
