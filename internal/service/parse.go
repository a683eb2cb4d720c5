package service

import (
	"regexp"
	"strconv"
	"strings"

	"ai-helpdesk/internal/models"
)

// Defensive parsers for model output. Each one is pure and has a
// documented default-on-failure so callers never propagate a parse
// error from the completion service.

var digitsRe = regexp.MustCompile(`\d+`)

var floatRe = regexp.MustCompile(`\d*\.?\d+`)

// parseConfidence extracts a confidence value from a completion reply.
// Reports ok=false when no number is present; the caller substitutes its
// default (0.8). Parsed values are clamped to [0,1].
func parseConfidence(raw string) (float64, bool) {
	match := floatRe.FindString(raw)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return models.Clamp01(v), true
}

// parseChunkIndices extracts up to maxCount chunk indices from a
// completion reply such as "3, 7, 12". The sentinel "none" and any
// malformed or out-of-range token yield no index. Order is preserved.
func parseChunkIndices(raw string, maxCount, chunkCount int) []int {
	if strings.EqualFold(strings.TrimSpace(raw), "none") {
		return nil
	}

	var indices []int
	for _, tok := range digitsRe.FindAllString(raw, -1) {
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 0 || idx >= chunkCount {
			continue
		}
		indices = append(indices, idx)
		if len(indices) == maxCount {
			break
		}
	}
	return indices
}

// matchCategory resolves a completion reply to a category label.
// Resolution order: exact label match, case-insensitive containment in
// either direction, then the first category as the documented default.
// labels must be in canonical enumeration order.
func matchCategory(raw string, labels []string) string {
	predicted := strings.TrimSpace(raw)

	for _, label := range labels {
		if predicted == label {
			return label
		}
	}

	predictedLower := strings.ToLower(predicted)
	for _, label := range labels {
		labelLower := strings.ToLower(label)
		if strings.Contains(predictedLower, labelLower) || (predictedLower != "" && strings.Contains(labelLower, predictedLower)) {
			return label
		}
	}

	return labels[0]
}
