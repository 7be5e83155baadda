package analyzer

import (
	"context"
	"image"

	"go-dental-analyzer/pkg/models"
)

// SignalExtractor is the image-processing collaborator the pipeline calls
// out to. Implementations must be reentrant: every method is a pure
// function of the image so concurrent analyses need no locking.
type SignalExtractor interface {
	// Signals computes width/height plus normalized brightness, contrast
	// and blur for an image.
	Signals(img image.Image) models.ImageSignals

	// DominantColor classifies the overall color and derives healthiness.
	DominantColor(img image.Image) models.ColorAnalysis

	// Enhance returns the preprocessed image the detection stage consumes.
	Enhance(img image.Image) image.Image

	// Edges returns an edge-filtered image, or nil when edge filtering is
	// not possible for the input.
	Edges(img image.Image) image.Image
}

// MLDetector is the optional pluggable model behind condition detection.
// A failure is swallowed by the detector, which degrades to rule-based
// output; implementations should return an error rather than panic.
type MLDetector interface {
	Classify(ctx context.Context, img image.Image) ([]models.Condition, error)
}
