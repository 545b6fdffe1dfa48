// Package consensus implements the dual-model reconciliation engine for
// Lumen. It turns two independent classifier opinions — the fast baseline
// model's prediction and the parsed output of the rich vision model — into a
// single verdict with a bounded confidence score, an agreement signal, and a
// human-readable summary.
//
// The package is pure: no I/O, no mutation of inputs, deterministic for
// identical inputs. It is safe to call concurrently.
package consensus

import (
	"fmt"
	"strings"
)

const (
	// consensusBoost is added to the mean confidence when both models agree.
	consensusBoost = 0.10
	// consensusCeiling bounds consensus confidence; agreement is meaningful
	// signal but never grounds for claiming near-certainty.
	consensusCeiling = 0.95
	// hybridPenalty scales the winner's confidence on disagreement, since
	// divergence reduces trust in either individual result.
	hybridPenalty = 0.90
)

// Compute reconciles the baseline result with the parsed rich result.
//
// Three terminal modes:
//   - single: rich unavailable; the baseline verdict passes through unchanged.
//   - consensus: labels match (case-insensitive); confidence is the mean of
//     both, boosted by consensusBoost and capped at consensusCeiling.
//   - hybrid: labels differ; the higher-confidence side wins (ties favor the
//     baseline) at hybridPenalty of its raw confidence.
//
// A nil rich result is treated as unavailable regardless of richAvailable.
// Returns ErrInvalidInput when the baseline itself is malformed; a rich
// result with label "unknown" is a valid input and resolves as disagreement.
func Compute(baseline ClassificationResult, rich *ParsedRichResult, richAvailable bool) (*Verdict, error) {
	if baseline.Label == "" {
		return nil, fmt.Errorf("%w: empty label", ErrInvalidInput)
	}
	if baseline.Confidence < 0 || baseline.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0, 1]", ErrInvalidInput, baseline.Confidence)
	}

	if !richAvailable || rich == nil {
		return singleVerdict(baseline), nil
	}

	if strings.EqualFold(rich.Label, baseline.Label) {
		return consensusVerdict(baseline, rich), nil
	}

	return hybridVerdict(baseline, rich), nil
}

func singleVerdict(baseline ClassificationResult) *Verdict {
	return &Verdict{
		FinalLabel:      baseline.Label,
		FinalConfidence: baseline.Confidence,
		Mode:            ModeSingle,
		Agreement:       nil,
		ConfidenceDelta: 0.0,
		Severity:        SeverityMild,
		Summary: fmt.Sprintf(
			"Baseline analysis detected %s (%.0f%% confidence). Vision analysis was unavailable.",
			DisplayName(baseline.Label), baseline.Confidence*100,
		),
	}
}

func consensusVerdict(baseline ClassificationResult, rich *ParsedRichResult) *Verdict {
	confidence := (baseline.Confidence+rich.Confidence)/2 + consensusBoost
	if confidence > consensusCeiling {
		confidence = consensusCeiling
	}

	agreement := true
	return &Verdict{
		FinalLabel:      baseline.Label,
		FinalConfidence: confidence,
		Mode:            ModeConsensus,
		Agreement:       &agreement,
		ConfidenceDelta: confidence - baseline.Confidence,
		Severity:        rich.Severity,
		Summary: fmt.Sprintf(
			"Both models independently detected %s; combined confidence: %.0f%%. Severity assessed as %s.",
			DisplayName(baseline.Label), confidence*100, rich.Severity,
		),
	}
}

func hybridVerdict(baseline ClassificationResult, rich *ParsedRichResult) *Verdict {
	// Ties favor the baseline: it is the calibrated model of the two.
	winnerLabel := baseline.Label
	winnerConfidence := baseline.Confidence
	if rich.Confidence > baseline.Confidence {
		winnerLabel = rich.Label
		winnerConfidence = rich.Confidence
	}

	confidence := winnerConfidence * hybridPenalty

	agreement := false
	return &Verdict{
		FinalLabel:      winnerLabel,
		FinalConfidence: confidence,
		Mode:            ModeHybrid,
		Agreement:       &agreement,
		ConfidenceDelta: confidence - baseline.Confidence,
		Severity:        rich.Severity,
		Summary: fmt.Sprintf(
			"Models disagreed: baseline detected %s (%.0f%%), vision analysis suggested %s (%.0f%%). "+
				"Proceeding with %s at reduced confidence; review recommended.",
			DisplayName(baseline.Label), baseline.Confidence*100,
			DisplayName(rich.Label), rich.Confidence*100,
			DisplayName(winnerLabel),
		),
	}
}
