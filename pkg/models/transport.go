package models

// AnalyzeRequest is the JSON body accepted by the analyze endpoint.
type AnalyzeRequest struct {
	URL         string         `json:"url" binding:"required,url"`
	UserID      string         `json:"user_id,omitempty"`
	Personalize bool           `json:"personalize,omitempty"`
	UserContext *UserContext   `json:"user_context,omitempty"`
	Thresholds  *GateOverrides `json:"thresholds,omitempty"`
}

// GateOverrides carries optional caller overrides for the quality gate.
// Nil fields keep the default threshold.
type GateOverrides struct {
	MinWidth      *int     `json:"min_width,omitempty"`
	MinHeight     *int     `json:"min_height,omitempty"`
	MinBrightness *float64 `json:"min_brightness,omitempty"`
	MaxBrightness *float64 `json:"max_brightness,omitempty"`
	MinContrast   *float64 `json:"min_contrast,omitempty"`
	MaxBlur       *float64 `json:"max_blur,omitempty"`
}

// AnalyzeResponse is the JSON shape of a completed analysis. Severity and
// the health score are computed from the result at conversion time.
type AnalyzeResponse struct {
	ID                 string           `json:"id"`
	Conditions         []Condition      `json:"conditions"`
	Severity           SeverityLevel    `json:"severity"`
	Confidence         float64          `json:"confidence"`
	OverallHealthScore int              `json:"overall_health_score"`
	Recommendations    []Recommendation `json:"recommendations"`
	Quality            ImageQuality     `json:"quality"`
	Color              ColorAnalysis    `json:"color"`
	Timestamp          string           `json:"timestamp"`
	ProcessingTimeSec  float64          `json:"processing_time_sec"`
}

// NewAnalyzeResponse converts a result into its transport shape.
func NewAnalyzeResponse(r *AnalysisResult) *AnalyzeResponse {
	return &AnalyzeResponse{
		ID:                 r.ID,
		Conditions:         r.Conditions,
		Severity:           r.Severity(),
		Confidence:         r.Confidence,
		OverallHealthScore: r.OverallHealthScore(),
		Recommendations:    r.Recommendations,
		Quality:            r.Quality,
		Color:              r.Color,
		Timestamp:          r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		ProcessingTimeSec:  r.ProcessingTimeSec,
	}
}

// AssessRequest is the JSON body for the realtime pre-capture check.
type AssessRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// AssessResponse reports the realtime quality verdict.
type AssessResponse struct {
	Acceptable bool     `json:"acceptable"`
	Issues     []string `json:"issues,omitempty"`
	Score      int      `json:"score"`
}

// BatchAnalyzeRequest is the JSON body for batch analysis.
type BatchAnalyzeRequest struct {
	URLs   []string `json:"urls" binding:"required,min=1"`
	UserID string   `json:"user_id,omitempty"`
}

// BatchItemResult is the per-image outcome of a batch run. Exactly one of
// Result and Error is set.
type BatchItemResult struct {
	URL    string           `json:"url"`
	Result *AnalyzeResponse `json:"result,omitempty"`
	Error  *ErrorResponse   `json:"error,omitempty"`
}

// ErrorResponse is the JSON error contract. Kind is a stable identifier a
// host UI can pattern-match without coupling to message text.
type ErrorResponse struct {
	ErrorKind          string   `json:"error_kind"`
	Message            string   `json:"message"`
	RecoverySuggestion string   `json:"recovery_suggestion,omitempty"`
	Issues             []string `json:"issues,omitempty"`
}
