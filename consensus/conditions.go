package consensus

import "strings"

// Condition describes one entry in the closed set of skin conditions the
// classifiers can report. Patterns are the lowercase free-text variants the
// parser scans for; Description is surfaced to clients alongside verdicts.
type Condition struct {
	Label       string
	Display     string
	Patterns    []string
	Description string
}

// Conditions is the closed catalog of recognized skin conditions. Labels
// match the baseline model's output classes.
var Conditions = []Condition{
	{
		Label:    "hormonal_acne",
		Display:  "Hormonal Acne",
		Patterns: []string{"hormonal acne", "hormonal breakout"},
		Description: "Hormonal acne typically appears on the chin and jawline. " +
			"This condition often requires targeted treatments with salicylic acid or benzoyl peroxide.",
	},
	{
		Label:    "acne",
		Display:  "Acne",
		Patterns: []string{"acne", "breakout", "pimple", "blemish"},
		Description: "Active acne breakouts on the skin. Consistent use of gentle cleansers " +
			"and acne treatments with salicylic acid can help clear and prevent future breakouts.",
	},
	{
		Label:    "dark_circles",
		Display:  "Dark Circles",
		Patterns: []string{"dark circle"},
		Description: "Dark circles around the eye area, which may be caused by genetics, sleep " +
			"deprivation, or thinning skin. Vitamin C and retinol treatments can help brighten.",
	},
	{
		Label:    "eye_bags",
		Display:  "Eye Bags",
		Patterns: []string{"eye bag", "under-eye bag", "under eye bag", "puffiness"},
		Description: "Puffiness and bags under the eyes, likely due to fluid retention, lack of " +
			"sleep, or aging. A gentle eye cream with caffeine can help reduce swelling.",
	},
	{
		Label:    "dark_spots",
		Display:  "Dark Spots",
		Patterns: []string{"dark spot", "hyperpigmentation", "sun spot", "age spot"},
		Description: "Hyperpigmentation and dark spots, often caused by sun exposure or " +
			"post-inflammatory marks. Vitamin C serums and SPF can help fade spots over time.",
	},
	{
		Label:    "wrinkles",
		Display:  "Wrinkles",
		Patterns: []string{"wrinkle", "fine line", "crow's feet"},
		Description: "Fine lines and wrinkles, a natural sign of aging. Retinol and peptide-based " +
			"products can help improve skin texture and reduce the appearance of lines.",
	},
	{
		Label:    "dry_skin",
		Display:  "Dry Skin",
		Patterns: []string{"dry skin", "dryness", "dehydrated", "flaky", "flaking"},
		Description: "Dry, dehydrated skin. The skin barrier may need strengthening with " +
			"ceramides and hyaluronic acid for better moisture retention.",
	},
	{
		Label:    "oily_skin",
		Display:  "Oily Skin",
		Patterns: []string{"oily skin", "excess oil", "oiliness", "sebum"},
		Description: "Excess oil production. Gentle, non-comedogenic products and salicylic " +
			"acid can help balance oil levels without over-drying.",
	},
	{
		Label:    "healthy",
		Display:  "Healthy Skin",
		Patterns: []string{"healthy", "clear skin", "no significant concerns"},
		Description: "The skin appears healthy. Maintain this with a consistent routine " +
			"including cleanser, moisturizer, and daily SPF protection.",
	},
}

// LabelUnknown is the parser's fallback when no condition can be extracted.
const LabelUnknown = "unknown"

// regions maps free-text region mentions to the canonical affected-area names.
// Order determines scan priority for overlapping mentions.
var regions = []struct {
	pattern   string
	canonical string
}{
	{"forehead", "forehead"},
	{"under-eye", "under_eyes"},
	{"under eye", "under_eyes"},
	{"cheekbone", "cheeks"},
	{"cheek", "cheeks"},
	{"jawline", "jawline"},
	{"jaw", "jawline"},
	{"chin", "chin"},
	{"nose", "nose"},
	{"temple", "temples"},
	{"neck", "neck"},
}

// NormalizeLabel canonicalizes a condition label: lowercase with spaces and
// hyphens collapsed to underscores. "Dark Spots" and "dark-spots" both
// normalize to "dark_spots".
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Lookup returns the catalog entry for a label, if the normalized label is
// part of the closed condition set.
func Lookup(label string) (Condition, bool) {
	normalized := NormalizeLabel(label)
	for _, c := range Conditions {
		if c.Label == normalized {
			return c, true
		}
	}
	return Condition{}, false
}

// DisplayName returns the human-readable name for a label, falling back to
// the label itself with underscores replaced by spaces.
func DisplayName(label string) string {
	if c, ok := Lookup(label); ok {
		return c.Display
	}
	return strings.ReplaceAll(label, "_", " ")
}
