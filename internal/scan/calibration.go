package scan

import "github.com/ayusman/armascan/internal/detector"

// Calibration converts pixel distances into centimeters. It is set once per
// session from the declared glove size and only cleared by Reset.
type Calibration struct {
	calibrated bool
	factor     float64
}

// Calibrated reports whether a factor has been established.
func (c *Calibration) Calibrated() bool { return c.calibrated }

// Factor returns centimeters per pixel, or 0 before calibration.
func (c *Calibration) Factor() float64 { return c.factor }

// Calibrate sets the factor so that the palm width of hand equals
// palmWidthCm. It does nothing and returns false once calibrated, or when
// the measured width is zero.
func (c *Calibration) Calibrate(hand *detector.HandLandmarks, width, height int, palmWidthCm float64) bool {
	if c.calibrated || hand == nil || palmWidthCm <= 0 {
		return false
	}
	px := PalmWidthPixels(hand, width, height)
	if px <= 0 {
		return false
	}
	c.factor = palmWidthCm / px
	c.calibrated = true
	return true
}

// Reset clears the calibration.
func (c *Calibration) Reset() {
	c.calibrated = false
	c.factor = 0
}

// PalmWidthPixels is the distance from the index to the pinky knuckle on a
// width x height canvas.
func PalmWidthPixels(hand *detector.HandLandmarks, width, height int) float64 {
	return pixelDistance(hand, detector.IndexMCP, detector.PinkyMCP, width, height)
}
