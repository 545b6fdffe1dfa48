package analyses

import (
	"database/sql"
	"encoding/json"
	"net/url"

	"github.com/lumenlabs/lumen/consensus"
	"github.com/lumenlabs/lumen/pkg/query"
	"github.com/lumenlabs/lumen/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("baseline_label", "BaselineLabel").
	Project("baseline_confidence", "BaselineConfidence").
	Project("baseline_distribution", "BaselineDistribution").
	Project("rich_model", "RichModel").
	Project("rich_text", "RichText").
	Project("parsed_label", "ParsedLabel").
	Project("parsed_confidence", "ParsedConfidence").
	Project("affected_areas", "AffectedAreas").
	Project("observations", "Observations").
	Project("final_label", "FinalLabel").
	Project("final_confidence", "FinalConfidence").
	Project("mode", "Mode").
	Project("agreement", "Agreement").
	Project("confidence_delta", "ConfidenceDelta").
	Project("severity", "Severity").
	Project("summary", "Summary").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. Status, Mode, FinalLabel, and Severity use exact
// matching. Filename uses case-insensitive contains matching.
type Filters struct {
	Status     *string `json:"status,omitempty"`
	Filename   *string `json:"filename,omitempty"`
	Mode       *string `json:"mode,omitempty"`
	FinalLabel *string `json:"final_label,omitempty"`
	Severity   *string `json:"severity,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("Mode", f.Mode).
		WhereEquals("FinalLabel", f.FinalLabel).
		WhereEquals("Severity", f.Severity)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if m := values.Get("mode"); m != "" {
		f.Mode = &m
	}

	if l := values.Get("final_label"); l != "" {
		f.FinalLabel = &l
	}

	if sv := values.Get("severity"); sv != "" {
		f.Severity = &sv
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var (
		a            Analysis
		distribution []byte
		areas        []byte
		observations []byte

		finalLabel      sql.NullString
		finalConfidence sql.NullFloat64
		mode            sql.NullString
		agreement       sql.NullBool
		confidenceDelta sql.NullFloat64
		severity        sql.NullString
		summary         sql.NullString
	)

	err := s.Scan(
		&a.ID,
		&a.Filename,
		&a.ContentType,
		&a.SizeBytes,
		&a.StorageKey,
		&a.Status,
		&a.BaselineLabel,
		&a.BaselineConfidence,
		&distribution,
		&a.RichModel,
		&a.RichText,
		&a.ParsedLabel,
		&a.ParsedConfidence,
		&areas,
		&observations,
		&finalLabel,
		&finalConfidence,
		&mode,
		&agreement,
		&confidenceDelta,
		&severity,
		&summary,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	if len(distribution) > 0 {
		if err := json.Unmarshal(distribution, &a.BaselineDistribution); err != nil {
			return a, err
		}
	}
	if len(areas) > 0 {
		if err := json.Unmarshal(areas, &a.AffectedAreas); err != nil {
			return a, err
		}
	}
	if len(observations) > 0 {
		if err := json.Unmarshal(observations, &a.Observations); err != nil {
			return a, err
		}
	}

	if finalLabel.Valid {
		verdict := &consensus.Verdict{
			FinalLabel:      finalLabel.String,
			FinalConfidence: finalConfidence.Float64,
			Mode:            consensus.Mode(mode.String),
			ConfidenceDelta: confidenceDelta.Float64,
			Severity:        consensus.Severity(severity.String),
			Summary:         summary.String,
		}
		if agreement.Valid {
			verdict.Agreement = &agreement.Bool
		}
		a.Verdict = verdict
	}

	return a, nil
}
