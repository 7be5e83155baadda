package analyzer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "go-dental-analyzer/internal/errors"
	"go-dental-analyzer/internal/logger"
	"go-dental-analyzer/internal/metrics"
	"go-dental-analyzer/internal/recommend"
	"go-dental-analyzer/pkg/models"
	"go-dental-analyzer/pkg/validation"
)

// State names the pipeline's position for logging and events. Rejected and
// Failed are absorbing: no partial result ever leaves them.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateEnhancing      State = "enhancing"
	StateColorAnalyzing State = "color_analyzing"
	StateDetecting      State = "detecting_conditions"
	StateScoring        State = "scoring"
	StateDone           State = "done"
	StateRejected       State = "rejected"
	StateFailed         State = "failed"
)

// StageTimeouts are the per-stage budgets for the three timed stages.
type StageTimeouts struct {
	Enhance      time.Duration
	ColorAnalyze time.Duration
	Detect       time.Duration
}

// DefaultStageTimeouts returns the standard stage budgets.
func DefaultStageTimeouts() StageTimeouts {
	return StageTimeouts{
		Enhance:      10 * time.Second,
		ColorAnalyze: 5 * time.Second,
		Detect:       15 * time.Second,
	}
}

// Orchestrator drives one image through the analysis pipeline. It holds no
// per-invocation state, so a single instance serves concurrent analyses.
type Orchestrator struct {
	extractor SignalExtractor
	detector  *ConditionDetector
	engine    *recommend.Engine
	timeouts  StageTimeouts
}

// NewOrchestrator creates an orchestrator. ml may be nil to run rule-based
// detection only.
func NewOrchestrator(extractor SignalExtractor, ml MLDetector, timeouts StageTimeouts) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		detector:  NewConditionDetector(ml),
		engine:    recommend.NewEngine(),
		timeouts:  timeouts,
	}
}

// Analyze runs the full pipeline for a decoded image. On success it returns
// the assembled result; otherwise one of the defined error kinds. Gate
// rejections and invalid input return immediately with no partial result,
// stage timeouts abort the whole run, and anything unclassified is
// normalized to the ml_failure catch-all.
func (o *Orchestrator) Analyze(
	ctx context.Context,
	img image.Image,
	user *models.UserContext,
	overrides *models.GateOverrides,
) (*models.AnalysisResult, error) {
	start := time.Now()
	state := StateIdle

	if img == nil {
		o.logTransition(state, StateRejected, start)
		return nil, apperrors.NewInvalidImage(nil)
	}

	state = o.transition(state, StateValidating, start)
	signals := o.extractor.Signals(img)
	gate := validation.NewQualityGateWithThresholds(
		validation.ApplyOverrides(validation.DefaultGateThresholds(), overrides))
	quality := gate.Assess(signals)
	if quality.Poor {
		o.logTransition(state, StateRejected, start)
		return nil, apperrors.NewLowQualityImage(quality.Issues)
	}

	state = o.transition(state, StateEnhancing, start)
	enhanced, err := runStage(ctx, "enhance", o.timeouts.Enhance, func(ctx context.Context) (image.Image, error) {
		return o.extractor.Enhance(img), nil
	})
	if err != nil {
		o.logTransition(state, StateFailed, start)
		return nil, apperrors.Normalize(err)
	}

	state = o.transition(state, StateColorAnalyzing, start)
	color, err := runStage(ctx, "color_analyze", o.timeouts.ColorAnalyze, func(ctx context.Context) (models.ColorAnalysis, error) {
		return o.extractor.DominantColor(enhanced), nil
	})
	if err != nil {
		o.logTransition(state, StateFailed, start)
		return nil, apperrors.Normalize(err)
	}

	state = o.transition(state, StateDetecting, start)
	conditions, err := runStage(ctx, "detect", o.timeouts.Detect, func(ctx context.Context) ([]models.Condition, error) {
		enhancedSignals := o.extractor.Signals(enhanced)
		detectSignals := EnhancedSignals{
			Brightness: enhancedSignals.Brightness,
			Contrast:   enhancedSignals.Contrast,
			Blur:       enhancedSignals.Blur,
		}
		var edgeSignals *EdgeSignals
		if edgeImg := o.extractor.Edges(enhanced); edgeImg != nil {
			es := o.extractor.Signals(edgeImg)
			edgeSignals = &EdgeSignals{Brightness: es.Brightness, Contrast: es.Contrast}
		}
		return o.detector.Detect(ctx, enhanced, detectSignals, edgeSignals, color), nil
	})
	if err != nil {
		o.logTransition(state, StateFailed, start)
		return nil, apperrors.Normalize(err)
	}

	// Scoring is synchronous computation over in-memory values; it needs
	// no timeout.
	state = o.transition(state, StateScoring, start)
	severity := AssessSeverity(conditions)
	confidence := ScoreConfidence(conditions, quality)
	recommendations := o.engine.Generate(conditions, severity, color, user)

	result := &models.AnalysisResult{
		ID:                uuid.NewString(),
		Conditions:        conditions,
		Confidence:        confidence,
		Recommendations:   recommendations,
		Quality:           quality,
		Color:             color,
		Timestamp:         start,
		ProcessingTimeSec: time.Since(start).Seconds(),
	}

	o.transition(state, StateDone, start)
	return result, nil
}

// AssessRealtime is the cheap pre-capture feedback path: loosened
// thresholds, no enhancement, no detection. A poor verdict here does not
// abort anything; the caller decides what to show.
func (o *Orchestrator) AssessRealtime(img image.Image) models.ImageQuality {
	if img == nil {
		return models.ImageQuality{Poor: true, Issues: []string{validation.IssueResolutionTooLow}}
	}
	return validation.AssessRealtime(o.extractor.Signals(img))
}

func (o *Orchestrator) transition(from, to State, start time.Time) State {
	o.logTransition(from, to, start)
	return to
}

func (o *Orchestrator) logTransition(from, to State, start time.Time) {
	logger.WithFields(logrus.Fields{
		"from":       from,
		"to":         to,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("Pipeline transition")
}

// runStage races fn against the stage budget. First to finish wins: if the
// timer fires first the work is abandoned and no partial result is merged.
// A panic inside the stage surfaces as an error so the catch-all
// normalization applies instead of unwinding the caller.
func runStage[T any](ctx context.Context, stage string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	stageStart := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(stageStart).Seconds())
	}()

	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("stage %s panicked: %v", stage, r)}
			}
		}()
		value, err := fn(stageCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-stageCtx.Done():
		if stageCtx.Err() == context.DeadlineExceeded {
			return zero, apperrors.NewProcessingTimeout(stage)
		}
		return zero, stageCtx.Err()
	case out := <-done:
		return out.value, out.err
	}
}
