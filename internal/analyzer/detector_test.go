package analyzer

import (
	"context"
	"errors"
	"image"
	"testing"

	"go-dental-analyzer/pkg/models"
)

type fixedMLDetector struct {
	conditions []models.Condition
	err        error
}

func (f fixedMLDetector) Classify(ctx context.Context, img image.Image) ([]models.Condition, error) {
	return f.conditions, f.err
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 10, 10))
}

func cleanSignals() EnhancedSignals {
	return EnhancedSignals{Brightness: 0.5, Contrast: 0.2, Blur: 0.5}
}

func TestDetect_HealthyWhenNothingFires(t *testing.T) {
	detector := NewConditionDetector(nil)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.95})

	if len(conditions) != 1 || conditions[0] != models.ConditionHealthy {
		t.Errorf("Expected [healthy], got %v", conditions)
	}
}

func TestDetect_BlackMeansDeadTooth(t *testing.T) {
	detector := NewConditionDetector(nil)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorBlack, Healthiness: 0.45})

	if !contains(conditions, models.ConditionDeadTooth) {
		t.Errorf("Expected dead_tooth for black dominant color, got %v", conditions)
	}
	if contains(conditions, models.ConditionHealthy) {
		t.Error("Healthy must never coexist with findings")
	}
}

func TestDetect_BrownWithLowHealthinessAddsCavity(t *testing.T) {
	detector := NewConditionDetector(nil)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorBrown, Healthiness: 0.25})

	if !contains(conditions, models.ConditionDiscoloration) {
		t.Errorf("Expected discoloration for brown color, got %v", conditions)
	}
	if !contains(conditions, models.ConditionCavity) {
		t.Errorf("Expected cavity below the 0.3 healthiness threshold, got %v", conditions)
	}
	// 0.25 < 0.4 also fires the plaque rule.
	if !contains(conditions, models.ConditionPlaque) {
		t.Errorf("Expected plaque below 0.4 healthiness, got %v", conditions)
	}
}

func TestDetect_HealthinessThresholdsStack(t *testing.T) {
	detector := NewConditionDetector(nil)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorUnknown, Healthiness: 0.15})

	if !contains(conditions, models.ConditionPlaque) || !contains(conditions, models.ConditionTartar) {
		t.Errorf("Expected both plaque and tartar at healthiness 0.15, got %v", conditions)
	}
}

func TestDetect_EdgeHeuristics(t *testing.T) {
	detector := NewConditionDetector(nil)

	edges := &EdgeSignals{Brightness: 0.05, Contrast: 0.4}
	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), edges,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.95})

	if !contains(conditions, models.ConditionChipped) {
		t.Errorf("Expected chipped for edge contrast > 0.3, got %v", conditions)
	}
	if !contains(conditions, models.ConditionMisaligned) {
		t.Errorf("Expected misaligned for edge brightness < 0.1, got %v", conditions)
	}
}

func TestDetect_NilEdgesSkipsEdgeRules(t *testing.T) {
	detector := NewConditionDetector(nil)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.95})

	if contains(conditions, models.ConditionChipped) || contains(conditions, models.ConditionMisaligned) {
		t.Errorf("Edge rules must be skipped without edge signals, got %v", conditions)
	}
}

func TestDetect_TextureSignalsGingivitis(t *testing.T) {
	detector := NewConditionDetector(nil)

	sharp := EnhancedSignals{Brightness: 0.5, Contrast: 0.5, Blur: 0.2}
	conditions := detector.Detect(context.Background(), testImage(), sharp, nil,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.95})

	if !contains(conditions, models.ConditionGingivitis) {
		t.Errorf("Expected gingivitis for sharp high-contrast texture, got %v", conditions)
	}
}

func TestDetect_MLResultsUnioned(t *testing.T) {
	ml := fixedMLDetector{conditions: []models.Condition{models.ConditionRootCanal, models.ConditionPlaque}}
	detector := NewConditionDetector(ml)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorYellow, Healthiness: 0.55})

	if !contains(conditions, models.ConditionDiscoloration) {
		t.Errorf("Expected rule-based discoloration kept, got %v", conditions)
	}
	if !contains(conditions, models.ConditionRootCanal) || !contains(conditions, models.ConditionPlaque) {
		t.Errorf("Expected ML conditions unioned in, got %v", conditions)
	}
}

func TestDetect_MLFailureDegradesToRules(t *testing.T) {
	ml := fixedMLDetector{err: errors.New("model unavailable")}
	detector := NewConditionDetector(ml)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorYellow, Healthiness: 0.55})

	if !contains(conditions, models.ConditionDiscoloration) {
		t.Errorf("Expected rule-based result to survive an ML failure, got %v", conditions)
	}
}

func TestDetect_CanonicalOrder(t *testing.T) {
	detector := NewConditionDetector(nil)

	conditions := detector.Detect(context.Background(), testImage(), cleanSignals(), nil,
		models.ColorAnalysis{DominantColor: models.ColorBrown, Healthiness: 0.15})

	rank := make(map[models.Condition]int, len(models.AllConditions))
	for i, c := range models.AllConditions {
		rank[c] = i
	}
	for i := 1; i < len(conditions); i++ {
		if rank[conditions[i-1]] >= rank[conditions[i]] {
			t.Fatalf("Expected canonical ordering, got %v", conditions)
		}
	}
}

func contains(conditions []models.Condition, want models.Condition) bool {
	for _, c := range conditions {
		if c == want {
			return true
		}
	}
	return false
}
