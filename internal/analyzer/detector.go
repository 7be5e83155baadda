package analyzer

import (
	"context"
	"errors"
	"image"

	"go-dental-analyzer/internal/logger"
	"go-dental-analyzer/pkg/models"
)

// EnhancedSignals are the brightness/contrast/blur signals computed on the
// enhanced image, the inputs to the texture heuristic.
type EnhancedSignals struct {
	Brightness float64
	Contrast   float64
	Blur       float64
}

// EdgeSignals are the signals computed on the edge-filtered image. A nil
// value means edge filtering was unavailable and the edge heuristics are
// skipped.
type EdgeSignals struct {
	Brightness float64
	Contrast   float64
}

// ConditionDetector combines rule-based heuristics with an optional ML
// detector. All rules run; their results are unioned and deduplicated.
type ConditionDetector struct {
	ml MLDetector
}

// NewConditionDetector creates a detector. ml may be nil for rule-based
// only operation.
func NewConditionDetector(ml MLDetector) *ConditionDetector {
	return &ConditionDetector{ml: ml}
}

// Detect returns the deduplicated condition set for an image. It never
// returns an empty set: when no rule and no ML class fires, the result is
// {healthy}. An ML failure is logged and swallowed so a best-effort
// rule-based result still reaches the caller.
func (d *ConditionDetector) Detect(
	ctx context.Context,
	img image.Image,
	enhanced EnhancedSignals,
	edges *EdgeSignals,
	color models.ColorAnalysis,
) []models.Condition {
	found := make(map[models.Condition]struct{})
	add := func(c models.Condition) { found[c] = struct{}{} }

	switch color.DominantColor {
	case models.ColorBlack:
		add(models.ConditionDeadTooth)
	case models.ColorBrown, models.ColorDarkYellow:
		add(models.ConditionDiscoloration)
		if color.Healthiness < 0.3 {
			add(models.ConditionCavity)
		}
	case models.ColorYellow, models.ColorLightYellow:
		add(models.ConditionDiscoloration)
	}

	// Both healthiness thresholds are independent and can fire together.
	if color.Healthiness < 0.4 {
		add(models.ConditionPlaque)
	}
	if color.Healthiness < 0.2 {
		add(models.ConditionTartar)
	}

	if edges != nil {
		if edges.Contrast > 0.3 {
			add(models.ConditionChipped)
		}
		if edges.Brightness < 0.1 {
			add(models.ConditionMisaligned)
		}
	}

	// Inflammation signal: strong texture on a sharp enhanced image.
	if enhanced.Contrast > 0.4 && enhanced.Blur < 0.3 {
		add(models.ConditionGingivitis)
	}

	if d.ml != nil {
		mlConditions, err := d.ml.Classify(ctx, img)
		if err != nil {
			logger.WithError(err).Debug("ML detector failed, continuing with rule-based results")
		} else {
			for _, c := range mlConditions {
				add(c)
			}
		}
	}

	if len(found) == 0 {
		add(models.ConditionHealthy)
	}

	// Emit in canonical order so the set is deterministic for callers.
	out := make([]models.Condition, 0, len(found))
	for _, c := range models.AllConditions {
		if _, ok := found[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// StubMLDetector always fails, standing in for a model that is not
// deployed. The detector's swallow-and-degrade policy turns its failure
// into a rule-based-only result.
type StubMLDetector struct{}

// Classify reports the model as unavailable.
func (StubMLDetector) Classify(ctx context.Context, img image.Image) ([]models.Condition, error) {
	return nil, errors.New("ml model is not available in this build")
}
