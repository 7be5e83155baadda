package analyzer

import "go-dental-analyzer/pkg/models"

// AssessSeverity returns the aggregate severity for a condition set: the
// maximum tier across its members. One high-severity condition dominates
// regardless of how many low-severity conditions coexist. An empty or
// healthy-only set yields none.
func AssessSeverity(conditions []models.Condition) models.SeverityLevel {
	max := models.SeverityNone
	for _, c := range conditions {
		if s := c.Severity(); s > max {
			max = s
		}
	}
	return max
}

// ScoreConfidence computes the 0-1 confidence for an analysis pass as a
// sequence of multiplicative adjustments from a 0.8 base. The steps are
// kept as sequential multiplications for exact reproducibility.
func ScoreConfidence(conditions []models.Condition, quality models.ImageQuality) float64 {
	confidence := 0.8 * (float64(quality.Score()) / 100)

	// Penalize over-detection.
	if len(conditions) > 3 {
		confidence *= 0.9
	}

	// Reward an unambiguous healthy read.
	if len(conditions) == 1 && conditions[0] == models.ConditionHealthy {
		confidence *= 1.1
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
