package signal

import (
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"go-dental-analyzer/pkg/models"
)

// laplacianNorm is the Laplacian variance treated as fully sharp when
// deriving the normalized blur signal: blur = 1 - min(1, variance/laplacianNorm).
const laplacianNorm = 500.0

// Extractor is the default image signal extractor. It is stateless apart
// from a slice pool, so one instance serves concurrent analyses.
type Extractor struct {
	slicePool sync.Pool
}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		slicePool: sync.Pool{
			New: func() interface{} {
				return make([]float64, 0, 1024)
			},
		},
	}
}

// Signals computes the full signal set for an image in one pass over the
// channel sums plus a grayscale pass for blur.
func (e *Extractor) Signals(img image.Image) models.ImageSignals {
	bounds := img.Bounds()
	m := e.basicMetrics(img)
	return models.ImageSignals{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Brightness: m.avgLuminance,
		Contrast:   contrastFromStdDev(m.lumStdDev),
		Blur:       e.Blur(img),
	}
}

// Brightness returns the average luminance in [0,1].
func (e *Extractor) Brightness(img image.Image) float64 {
	return e.basicMetrics(img).avgLuminance
}

// Contrast returns the luminance spread normalized to [0,1].
func (e *Extractor) Contrast(img image.Image) float64 {
	return contrastFromStdDev(e.basicMetrics(img).lumStdDev)
}

// Blur returns a [0,1] blur score derived from Laplacian variance on the
// grayscale image: 0 is sharp, 1 is completely flat.
func (e *Extractor) Blur(img image.Image) float64 {
	gray := toGray(img)
	variance := e.laplacianVariance(gray)
	blur := 1 - math.Min(1, variance/laplacianNorm)
	if blur < 0 {
		return 0
	}
	return blur
}

// DominantColor classifies the overall color of the image and derives a
// healthiness value anchored at the color's fixed baseline.
func (e *Extractor) DominantColor(img image.Image) models.ColorAnalysis {
	m := e.basicMetrics(img)
	h, s, v := rgbToHSV(m.avgR, m.avgG, m.avgB)

	color := classifyColor(h, s, v)
	healthiness := clamp01(color.HealthinessBaseline() + 0.15*(v-0.6))
	return models.ColorAnalysis{DominantColor: color, Healthiness: healthiness}
}

// Enhance applies a contrast boost and mild sharpening, the preprocessing
// the detection stage expects.
func (e *Extractor) Enhance(img image.Image) image.Image {
	out := imaging.AdjustContrast(img, 15)
	return imaging.Sharpen(out, 1.0)
}

// Edges returns an edge-filtered image, or nil when the input is too small
// for the 3x3 kernel.
func (e *Extractor) Edges(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return nil
	}
	// Laplacian kernel: [0, 1, 0; 1, -4, 1; 0, 1, 0]
	return imaging.Convolve3x3(img, [9]float64{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	}, nil)
}

// metrics holds internal per-image aggregates.
type metrics struct {
	avgLuminance float64
	lumStdDev    float64
	avgR         float64
	avgG         float64
	avgB         float64
}

// basicMetrics scans the image in horizontal strips, one goroutine per
// strip, and aggregates channel and luminance statistics.
func (e *Extractor) basicMetrics(img image.Image) metrics {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return metrics{}
	}

	numWorkers := runtime.NumCPU()
	if height < numWorkers {
		numWorkers = height
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	type stripResult struct {
		lum, lumSq, r, g, b float64
		pixels              int
	}

	results := make(chan stripResult, numWorkers)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		startY := bounds.Min.Y + i*rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > bounds.Max.Y {
			endY = bounds.Max.Y
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			var sr stripResult
			for y := startY; y < endY; y++ {
				for x := bounds.Min.X; x < bounds.Max.X; x++ {
					rVal, gVal, bVal, _ := img.At(x, y).RGBA()
					rf := float64(rVal) / 65535.0
					gf := float64(gVal) / 65535.0
					bf := float64(bVal) / 65535.0
					lum := 0.299*rf + 0.587*gf + 0.114*bf
					sr.lum += lum
					sr.lumSq += lum * lum
					sr.r += rf
					sr.g += gf
					sr.b += bf
					sr.pixels++
				}
			}
			results <- sr
		}(startY, endY)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var total stripResult
	for sr := range results {
		total.lum += sr.lum
		total.lumSq += sr.lumSq
		total.r += sr.r
		total.g += sr.g
		total.b += sr.b
		total.pixels += sr.pixels
	}
	if total.pixels == 0 {
		return metrics{}
	}

	n := float64(total.pixels)
	mean := total.lum / n
	variance := total.lumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return metrics{
		avgLuminance: mean,
		lumStdDev:    math.Sqrt(variance),
		avgR:         total.r / n,
		avgG:         total.g / n,
		avgB:         total.b / n,
	}
}

// laplacianVariance applies the Laplacian kernel and returns the variance
// of responses, the sharpness measure the blur signal is derived from.
func (e *Extractor) laplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return 0
	}

	data := e.slicePool.Get().([]float64)
	defer e.slicePool.Put(data[:0])
	if cap(data) < (width-2)*(height-2) {
		data = make([]float64, 0, (width-2)*(height-2))
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			center := float64(gray.GrayAt(x, y).Y)
			top := float64(gray.GrayAt(x, y-1).Y)
			bottom := float64(gray.GrayAt(x, y+1).Y)
			left := float64(gray.GrayAt(x-1, y).Y)
			right := float64(gray.GrayAt(x+1, y).Y)
			data = append(data, -4*center+top+bottom+left+right)
		}
	}
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// contrastFromStdDev maps a luminance standard deviation (at most 0.5 for
// values in [0,1]) onto the [0,1] contrast scale the gate thresholds use.
func contrastFromStdDev(sd float64) float64 {
	return clamp01(2 * sd)
}

func classifyColor(h, s, v float64) models.DominantColor {
	switch {
	case v < 0.15:
		return models.ColorBlack
	case s < 0.08 && v > 0.85:
		return models.ColorWhite
	case s < 0.15 && v > 0.70:
		return models.ColorOffWhite
	case h >= 15 && h < 45 && v < 0.55:
		return models.ColorBrown
	case h >= 35 && h <= 75:
		switch {
		case v > 0.80:
			return models.ColorLightYellow
		case v > 0.55:
			return models.ColorYellow
		default:
			return models.ColorDarkYellow
		}
	default:
		return models.ColorUnknown
	}
}

func rgbToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	v = max
	if max == 0 {
		s = 0
	} else {
		s = delta / max
	}

	if delta == 0 {
		h = 0
	} else if max == r {
		h = 60 * ((g - b) / delta)
	} else if max == g {
		h = 60 * (((b - r) / delta) + 2)
	} else {
		h = 60 * (((r - g) / delta) + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toGray copies into a zero-based rect so downstream pixel loops can
// index from the origin regardless of the source's bounds (sub-images
// keep their parent's offset).
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}
