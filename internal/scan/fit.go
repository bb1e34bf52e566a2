package scan

import (
	"math"

	"github.com/ayusman/armascan/internal/detector"
)

// FitEvaluator scores how well a hand fills the frame. A hand whose bounding
// box matches the target fractions scores 100; smaller or larger hands score
// lower.
type FitEvaluator struct {
	TargetWidth  float64
	TargetHeight float64

	// Boost is an empirical multiplier applied before clamping to 100.
	Boost float64
}

// DefaultFitEvaluator returns an evaluator targeting 45% of the frame width
// and 55% of its height.
func DefaultFitEvaluator() FitEvaluator {
	return FitEvaluator{
		TargetWidth:  0.45,
		TargetHeight: 0.55,
		Boost:        1.3,
	}
}

// Score returns a value in [0,100]. Empty or degenerate point sets score 0.
func (f FitEvaluator) Score(points []detector.Point3D) float64 {
	w, h, ok := boundingBox(points)
	if !ok || w <= 0 || h <= 0 || f.TargetWidth <= 0 || f.TargetHeight <= 0 {
		return 0
	}

	widthRatio := math.Min(w/f.TargetWidth, f.TargetWidth/w)
	heightRatio := math.Min(h/f.TargetHeight, f.TargetHeight/h)
	raw := widthRatio * heightRatio * 100

	return math.Min(raw*f.Boost, 100)
}
