package models

import "time"

// ImageSignals holds the raw signals the extractor derives from one image.
// Brightness, contrast and blur are normalized to [0,1].
type ImageSignals struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Blur       float64 `json:"blur"`
}

// ImageQuality is the quality gate verdict for a single image. It is
// produced once per analysis and not mutated afterwards.
type ImageQuality struct {
	Poor   bool     `json:"poor"`
	Issues []string `json:"issues,omitempty"`
}

// Score derives the 0-100 quality score from the verdict. An acceptable
// image always scores 100; a poor one loses 20 points per collected issue.
func (q ImageQuality) Score() int {
	if !q.Poor {
		return 100
	}
	score := 100 - 20*len(q.Issues)
	if score < 0 {
		score = 0
	}
	return score
}

// AnalysisResult is the assembled output of one successful pipeline run.
// Severity and the overall health score are always derived from the
// condition set so they cannot drift from it.
type AnalysisResult struct {
	ID                string           `json:"id"`
	Conditions        []Condition      `json:"conditions"`
	Confidence        float64          `json:"confidence"`
	Recommendations   []Recommendation `json:"recommendations"`
	Quality           ImageQuality     `json:"quality"`
	Color             ColorAnalysis    `json:"color"`
	Timestamp         time.Time        `json:"timestamp"`
	ProcessingTimeSec float64          `json:"processing_time_sec"`
}

// Severity returns the aggregate severity: the maximum tier across the
// condition set, none for an empty or healthy-only set.
func (r AnalysisResult) Severity() SeverityLevel {
	max := SeverityNone
	for _, c := range r.Conditions {
		if s := c.Severity(); s > max {
			max = s
		}
	}
	return max
}

// OverallHealthScore returns 100 minus the summed per-condition penalties,
// floored at zero.
func (r AnalysisResult) OverallHealthScore() int {
	score := 100
	for _, c := range r.Conditions {
		score -= c.Penalty()
	}
	if score < 0 {
		score = 0
	}
	return score
}

// HasCondition reports whether the result contains the given condition.
func (r AnalysisResult) HasCondition(c Condition) bool {
	for _, rc := range r.Conditions {
		if rc == c {
			return true
		}
	}
	return false
}

// HealthTrend summarizes the direction of a user's recent scores.
type HealthTrend string

const (
	TrendImproving HealthTrend = "improving"
	TrendStable    HealthTrend = "stable"
	TrendDeclining HealthTrend = "declining"
)

// UserContext is optional caller-supplied context consumed only by the
// recommendation engine's personalization stage. RecentHistory is ordered
// most-recent last.
type UserContext struct {
	Age                    int              `json:"age"`
	RecentHistory          []AnalysisResult `json:"recent_history,omitempty"`
	HealthTrend            HealthTrend      `json:"health_trend,omitempty"`
	PrefersNaturalProducts bool             `json:"prefers_natural_products,omitempty"`
}
