package analyzer

import (
	"context"
	"image"
	"testing"
	"time"

	apperrors "go-dental-analyzer/internal/errors"
	"go-dental-analyzer/pkg/models"
)

// fakeExtractor returns canned signals so pipeline behavior can be driven
// without real image processing.
type fakeExtractor struct {
	signals      models.ImageSignals
	color        models.ColorAnalysis
	enhanceDelay time.Duration
	edges        image.Image
}

func (f *fakeExtractor) Signals(img image.Image) models.ImageSignals {
	return f.signals
}

func (f *fakeExtractor) DominantColor(img image.Image) models.ColorAnalysis {
	return f.color
}

func (f *fakeExtractor) Enhance(img image.Image) image.Image {
	if f.enhanceDelay > 0 {
		time.Sleep(f.enhanceDelay)
	}
	return img
}

func (f *fakeExtractor) Edges(img image.Image) image.Image {
	return f.edges
}

type panickyExtractor struct {
	fakeExtractor
}

func (p *panickyExtractor) Enhance(img image.Image) image.Image {
	panic("boom")
}

func acceptableExtractor() *fakeExtractor {
	return &fakeExtractor{
		signals: models.ImageSignals{
			Width: 1024, Height: 768,
			Brightness: 0.5, Contrast: 0.4, Blur: 0.2,
		},
		color: models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.95},
	}
}

func TestAnalyze_SuccessPath(t *testing.T) {
	orchestrator := NewOrchestrator(acceptableExtractor(), nil, DefaultStageTimeouts())

	result, err := orchestrator.Analyze(context.Background(), testImage(), nil, nil)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if result.ID == "" {
		t.Error("Expected a generated result ID")
	}
	if len(result.Conditions) != 1 || result.Conditions[0] != models.ConditionHealthy {
		t.Errorf("Expected [healthy], got %v", result.Conditions)
	}
	if result.OverallHealthScore() != 100 {
		t.Errorf("Expected health score 100, got %d", result.OverallHealthScore())
	}
	if result.Quality.Poor {
		t.Error("Expected acceptable quality verdict on the result")
	}
	if len(result.Recommendations) == 0 {
		t.Error("Expected at least the healthy-condition recommendation")
	}
}

func TestAnalyze_NilImageRejected(t *testing.T) {
	orchestrator := NewOrchestrator(acceptableExtractor(), nil, DefaultStageTimeouts())

	_, err := orchestrator.Analyze(context.Background(), nil, nil, nil)
	if !apperrors.IsKind(err, apperrors.KindInvalidImage) {
		t.Errorf("Expected invalid_image, got %v", err)
	}
}

func TestAnalyze_LowResolutionRejected(t *testing.T) {
	extractor := acceptableExtractor()
	extractor.signals.Width = 200
	extractor.signals.Height = 200
	orchestrator := NewOrchestrator(extractor, nil, DefaultStageTimeouts())

	_, err := orchestrator.Analyze(context.Background(), testImage(), nil, nil)
	if !apperrors.IsKind(err, apperrors.KindLowQualityImage) {
		t.Fatalf("Expected low_quality_image, got %v", err)
	}

	appErr := apperrors.Normalize(err)
	if len(appErr.Issues) == 0 {
		t.Error("Expected the rejection to carry the collected issues")
	}
}

func TestAnalyze_GateOverridesApplied(t *testing.T) {
	extractor := acceptableExtractor()
	extractor.signals.Width = 400
	extractor.signals.Height = 400
	orchestrator := NewOrchestrator(extractor, nil, DefaultStageTimeouts())

	minWidth, minHeight := 300, 300
	overrides := &models.GateOverrides{MinWidth: &minWidth, MinHeight: &minHeight}

	result, err := orchestrator.Analyze(context.Background(), testImage(), nil, overrides)
	if err != nil {
		t.Fatalf("Expected overrides to admit the 400px image, got %v", err)
	}
	if result == nil {
		t.Fatal("Expected a result")
	}
}

func TestAnalyze_EnhanceTimeout(t *testing.T) {
	extractor := acceptableExtractor()
	extractor.enhanceDelay = 200 * time.Millisecond

	timeouts := DefaultStageTimeouts()
	timeouts.Enhance = 10 * time.Millisecond
	orchestrator := NewOrchestrator(extractor, nil, timeouts)

	_, err := orchestrator.Analyze(context.Background(), testImage(), nil, nil)
	if !apperrors.IsKind(err, apperrors.KindProcessingTimeout) {
		t.Errorf("Expected processing_timeout, got %v", err)
	}
}

func TestAnalyze_StagePanicNormalized(t *testing.T) {
	extractor := &panickyExtractor{fakeExtractor: *acceptableExtractor()}
	orchestrator := NewOrchestrator(extractor, nil, DefaultStageTimeouts())

	_, err := orchestrator.Analyze(context.Background(), testImage(), nil, nil)
	if !apperrors.IsKind(err, apperrors.KindMLFailure) {
		t.Errorf("Expected the catch-all ml_failure kind, got %v", err)
	}
}

func TestAnalyze_MLFailureStillSucceeds(t *testing.T) {
	orchestrator := NewOrchestrator(acceptableExtractor(), StubMLDetector{}, DefaultStageTimeouts())

	result, err := orchestrator.Analyze(context.Background(), testImage(), nil, nil)
	if err != nil {
		t.Fatalf("Expected ML failure to degrade, not fail, got %v", err)
	}
	if len(result.Conditions) != 1 || result.Conditions[0] != models.ConditionHealthy {
		t.Errorf("Expected rule-based [healthy], got %v", result.Conditions)
	}
}

func TestAssessRealtime_UsesLoosenedGate(t *testing.T) {
	extractor := acceptableExtractor()
	extractor.signals.Width = 400
	extractor.signals.Height = 400
	orchestrator := NewOrchestrator(extractor, nil, DefaultStageTimeouts())

	quality := orchestrator.AssessRealtime(testImage())
	if quality.Poor {
		t.Errorf("Expected 400px to pass the realtime gate, got %v", quality.Issues)
	}
}

func TestAssessRealtime_NilImage(t *testing.T) {
	orchestrator := NewOrchestrator(acceptableExtractor(), nil, DefaultStageTimeouts())

	quality := orchestrator.AssessRealtime(nil)
	if !quality.Poor {
		t.Error("Expected a nil image to be reported as poor")
	}
}

func TestRunStage_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runStage(ctx, "test", time.Second, func(ctx context.Context) (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 1, nil
	})
	if err == nil {
		t.Error("Expected an error from a cancelled context")
	}
}
