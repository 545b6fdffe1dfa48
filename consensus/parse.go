package consensus

import (
	"regexp"
	"strconv"
	"strings"
)

// maxObservations caps the number of clinical notes extracted from a single
// analysis so unbounded model output cannot grow the record without limit.
const maxObservations = 5

// defaultConfidence is used when no percentage can be extracted from the text.
const defaultConfidence = 0.5

var percentPattern = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)

var sentenceSplitter = regexp.MustCompile(`[.!?]\s+|[.!?]$|\n+`)

// ParseRichAnalysis extracts a structured record from the rich classifier's
// free-text output. It is total: any input, including the empty string,
// yields a fully populated result. Extraction failures degrade to documented
// defaults (label "unknown", confidence 0.5, severity mild, empty lists)
// because unstructured model text is too unreliable to justify hard failures.
//
// When multiple condition names appear, the earliest mention wins; overlapping
// mentions at the same position resolve to the longer (more specific) pattern,
// so "hormonal acne" is never misread as plain "acne".
func ParseRichAnalysis(text string) ParsedRichResult {
	result := ParsedRichResult{
		Label:         LabelUnknown,
		Confidence:    defaultConfidence,
		Severity:      SeverityMild,
		AffectedAreas: []string{},
		Observations:  []string{},
	}

	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return result
	}

	label, labelIdx := matchCondition(lower)
	if label != "" {
		result.Label = label
	}

	if conf, ok := extractConfidence(lower, labelIdx); ok {
		result.Confidence = conf
	}

	result.Severity = extractSeverity(lower)
	result.AffectedAreas = extractAreas(lower)
	result.Observations = extractObservations(text)

	return result
}

// matchCondition returns the catalog label whose pattern appears earliest in
// the text, and the index of that mention. Returns ("", -1) when no pattern
// matches.
func matchCondition(lower string) (string, int) {
	bestLabel := ""
	bestIdx := -1
	bestLen := 0

	for _, c := range Conditions {
		for _, pattern := range c.Patterns {
			idx := strings.Index(lower, pattern)
			if idx < 0 {
				continue
			}
			if bestIdx < 0 || idx < bestIdx || (idx == bestIdx && len(pattern) > bestLen) {
				bestLabel = c.Label
				bestIdx = idx
				bestLen = len(pattern)
			}
		}
	}

	return bestLabel, bestIdx
}

// extractConfidence finds a percentage in the text and converts it to [0, 1].
// It prefers the first percentage at or after the detected label mention,
// falling back to the first percentage anywhere in the text.
func extractConfidence(lower string, labelIdx int) (float64, bool) {
	if labelIdx >= 0 {
		if m := percentPattern.FindStringSubmatch(lower[labelIdx:]); m != nil {
			return clampConfidence(m[1]), true
		}
	}

	if m := percentPattern.FindStringSubmatch(lower); m != nil {
		return clampConfidence(m[1]), true
	}

	return 0, false
}

func clampConfidence(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultConfidence
	}

	v /= 100
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// extractSeverity picks the first severity keyword mentioned, defaulting to
// mild. Scanning is positional so "moderate to severe" reads as moderate.
func extractSeverity(lower string) Severity {
	keywords := []struct {
		word     string
		severity Severity
	}{
		{"severe", SeveritySevere},
		{"moderate", SeverityModerate},
		{"mild", SeverityMild},
	}

	best := SeverityMild
	bestIdx := -1

	for _, k := range keywords {
		idx := strings.Index(lower, k.word)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best = k.severity
			bestIdx = idx
		}
	}

	return best
}

// extractAreas collects canonical region names in order of first appearance.
func extractAreas(lower string) []string {
	type mention struct {
		idx  int
		name string
	}

	var mentions []mention
	seen := make(map[string]bool)

	for _, r := range regions {
		idx := strings.Index(lower, r.pattern)
		if idx < 0 || seen[r.canonical] {
			continue
		}
		seen[r.canonical] = true
		mentions = append(mentions, mention{idx: idx, name: r.canonical})
	}

	areas := make([]string, 0, len(mentions))
	for len(mentions) > 0 {
		min := 0
		for i := 1; i < len(mentions); i++ {
			if mentions[i].idx < mentions[min].idx {
				min = i
			}
		}
		areas = append(areas, mentions[min].name)
		mentions = append(mentions[:min], mentions[min+1:]...)
	}

	return areas
}

// extractObservations splits the text into sentences and keeps up to
// maxObservations substantive ones as clinical notes.
func extractObservations(text string) []string {
	parts := sentenceSplitter.Split(text, -1)
	observations := make([]string, 0, maxObservations)

	for _, p := range parts {
		s := strings.TrimSpace(p)
		if len(s) < 12 {
			continue
		}
		observations = append(observations, s)
		if len(observations) == maxObservations {
			break
		}
	}

	return observations
}
