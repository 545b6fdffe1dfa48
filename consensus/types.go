package consensus

// Severity is a categorical assessment of how pronounced a condition appears.
type Severity string

// Severity levels carried on parsed rich results and final verdicts.
const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Mode identifies which reconciliation path produced a verdict.
type Mode string

// Reconciliation modes.
const (
	// ModeConsensus means both classifiers agreed on the label.
	ModeConsensus Mode = "consensus"
	// ModeHybrid means the classifiers disagreed and the higher-confidence label won.
	ModeHybrid Mode = "hybrid"
	// ModeSingle means only the baseline classifier's result was available.
	ModeSingle Mode = "single"
)

// ClassificationResult is the baseline classifier's output for one image.
// Distribution holds per-label scores for every label the model considered;
// values are independent scores and need not sum to 1.
type ClassificationResult struct {
	Label        string             `json:"label"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution"`
}

// ParsedRichResult is the structured record extracted from the rich
// classifier's free-text analysis. All fields are always populated;
// ParseRichAnalysis substitutes documented defaults when extraction fails.
type ParsedRichResult struct {
	Label         string   `json:"label"`
	Confidence    float64  `json:"confidence"`
	Severity      Severity `json:"severity"`
	AffectedAreas []string `json:"affected_areas"`
	Observations  []string `json:"observations"`
}

// Verdict is the reconciled result of both classifier opinions.
//
// The JSON field names are a wire contract: downstream clients bind to
// them verbatim, so they must not change.
type Verdict struct {
	FinalLabel      string   `json:"finalLabel"`
	FinalConfidence float64  `json:"finalConfidence"`
	Mode            Mode     `json:"mode"`
	Agreement       *bool    `json:"agreement"`
	ConfidenceDelta float64  `json:"confidenceDelta"`
	Severity        Severity `json:"severity"`
	Summary         string   `json:"summary"`
}
