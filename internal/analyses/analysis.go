// Package analyses implements the skin analysis domain for Lumen.
// It provides types, data access, and business logic for image upload,
// dual-model analysis, verdict persistence, and blob storage integration.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenlabs/lumen/consensus"
)

// Analysis statuses. A record is pending while the pipeline runs, completed
// once a verdict is persisted, and failed when the pipeline errored.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Analysis represents one analyzed skin photo: the uploaded image metadata,
// the raw model outputs, and the reconciled verdict. Result fields are nil
// until the pipeline completes.
type Analysis struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	Status      string    `json:"status"`

	BaselineLabel        *string            `json:"baseline_label,omitempty"`
	BaselineConfidence   *float64           `json:"baseline_confidence,omitempty"`
	BaselineDistribution map[string]float64 `json:"baseline_distribution,omitempty"`

	RichModel *string `json:"rich_model,omitempty"`
	RichText  *string `json:"rich_text,omitempty"`

	ParsedLabel      *string  `json:"parsed_label,omitempty"`
	ParsedConfidence *float64 `json:"parsed_confidence,omitempty"`
	AffectedAreas    []string `json:"affected_areas,omitempty"`
	Observations     []string `json:"observations,omitempty"`

	Verdict *consensus.Verdict `json:"verdict,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and analyze a new image.
// Data holds the raw image bytes.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}
