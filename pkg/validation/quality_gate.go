package validation

import (
	"go-dental-analyzer/pkg/models"
)

// Issue strings are part of the caller contract; hosts match on them.
const (
	IssueResolutionTooLow = "resolution too low"
	IssueTooDark          = "too dark"
	IssueTooBright        = "too bright"
	IssueLowContrast      = "low contrast"
	IssueBlurry           = "blurry"
	IssueSlightlyBlurry   = "warning: slightly blurry"
)

// GateThresholds defines the configurable limits for the quality gate.
type GateThresholds struct {
	MinWidth      int
	MinHeight     int
	MinBrightness float64
	MaxBrightness float64
	MinContrast   float64
	MaxBlur       float64
	SoftBlur      float64
}

// DefaultGateThresholds returns the thresholds for full analysis.
func DefaultGateThresholds() GateThresholds {
	return GateThresholds{
		MinWidth:      500,
		MinHeight:     500,
		MinBrightness: 0.2,
		MaxBrightness: 0.9,
		MinContrast:   0.1,
		MaxBlur:       0.6,
		SoftBlur:      0.4,
	}
}

// RealtimeGateThresholds returns the loosened thresholds used for cheap
// pre-capture feedback. Only resolution and brightness are checked on this
// path; see AssessRealtime.
func RealtimeGateThresholds() GateThresholds {
	t := DefaultGateThresholds()
	t.MinWidth = 300
	t.MinHeight = 300
	t.MinBrightness = 0.1
	t.MaxBrightness = 0.95
	return t
}

// QualityGate classifies images as acceptable or unacceptable for analysis.
// It never fails; it always returns a structured verdict.
type QualityGate struct {
	thresholds GateThresholds
}

// NewQualityGate creates a gate with the default thresholds.
func NewQualityGate() *QualityGate {
	return &QualityGate{thresholds: DefaultGateThresholds()}
}

// NewQualityGateWithThresholds creates a gate with custom thresholds.
func NewQualityGateWithThresholds(thresholds GateThresholds) *QualityGate {
	return &QualityGate{thresholds: thresholds}
}

// Thresholds returns the gate's active thresholds.
func (g *QualityGate) Thresholds() GateThresholds {
	return g.thresholds
}

// Assess runs every rule independently and collects all triggered issues.
// Poor is set iff at least one hard issue fired; the slight-blur warning is
// collected but does not mark the image poor on its own.
func (g *QualityGate) Assess(signals models.ImageSignals) models.ImageQuality {
	t := g.thresholds
	var issues []string
	poor := false

	if signals.Width < t.MinWidth || signals.Height < t.MinHeight {
		issues = append(issues, IssueResolutionTooLow)
		poor = true
	}

	if signals.Brightness < t.MinBrightness {
		issues = append(issues, IssueTooDark)
		poor = true
	} else if signals.Brightness > t.MaxBrightness {
		issues = append(issues, IssueTooBright)
		poor = true
	}

	if signals.Contrast < t.MinContrast {
		issues = append(issues, IssueLowContrast)
		poor = true
	}

	if signals.Blur > t.MaxBlur {
		issues = append(issues, IssueBlurry)
		poor = true
	} else if signals.Blur > t.SoftBlur {
		issues = append(issues, IssueSlightlyBlurry)
	}

	return models.ImageQuality{Poor: poor, Issues: issues}
}

// AssessRealtime is the cheap pre-capture path: loosened thresholds and
// only the resolution and brightness rules, so a viewfinder can poll it
// without paying for the full gate.
func AssessRealtime(signals models.ImageSignals) models.ImageQuality {
	t := RealtimeGateThresholds()
	var issues []string

	if signals.Width < t.MinWidth || signals.Height < t.MinHeight {
		issues = append(issues, IssueResolutionTooLow)
	}
	if signals.Brightness < t.MinBrightness {
		issues = append(issues, IssueTooDark)
	} else if signals.Brightness > t.MaxBrightness {
		issues = append(issues, IssueTooBright)
	}

	return models.ImageQuality{Poor: len(issues) > 0, Issues: issues}
}

// ApplyOverrides returns a copy of the thresholds with any non-nil caller
// overrides applied.
func ApplyOverrides(base GateThresholds, o *models.GateOverrides) GateThresholds {
	if o == nil {
		return base
	}
	if o.MinWidth != nil {
		base.MinWidth = *o.MinWidth
	}
	if o.MinHeight != nil {
		base.MinHeight = *o.MinHeight
	}
	if o.MinBrightness != nil {
		base.MinBrightness = *o.MinBrightness
	}
	if o.MaxBrightness != nil {
		base.MaxBrightness = *o.MaxBrightness
	}
	if o.MinContrast != nil {
		base.MinContrast = *o.MinContrast
	}
	if o.MaxBlur != nil {
		base.MaxBlur = *o.MaxBlur
	}
	return base
}
