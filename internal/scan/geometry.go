package scan

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/armascan/internal/detector"
)

// pixelDistance returns the distance between landmarks a and b after scaling
// x by width and y by height. The canvas need not be square.
func pixelDistance(h *detector.HandLandmarks, a, b, width, height int) float64 {
	ax, ay := h.Pixel(a, width, height)
	bx, by := h.Pixel(b, width, height)
	return floats.Distance([]float64{ax, ay}, []float64{bx, by}, 2)
}

// chainLength sums the segment distances along a landmark chain.
func chainLength(h *detector.HandLandmarks, chain []int, width, height int) float64 {
	var total float64
	for i := 1; i < len(chain); i++ {
		total += pixelDistance(h, chain[i-1], chain[i], width, height)
	}
	return total
}

// boundingBox returns the normalized extent of points. ok is false for an
// empty set.
func boundingBox(points []detector.Point3D) (width, height float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return floats.Max(xs) - floats.Min(xs), floats.Max(ys) - floats.Min(ys), true
}
