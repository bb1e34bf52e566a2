package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/armascan/internal/detector"
)

func palmHand(indexX, pinkyX float64) *detector.HandLandmarks {
	var h detector.HandLandmarks
	h.Points[detector.IndexMCP] = detector.Point3D{X: indexX, Y: 0.5}
	h.Points[detector.PinkyMCP] = detector.Point3D{X: pinkyX, Y: 0.5}
	return &h
}

func TestCalibration_Calibrate(t *testing.T) {
	var c Calibration
	require.False(t, c.Calibrated())
	require.Zero(t, c.Factor())

	ok := c.Calibrate(palmHand(0.3, 0.5), 640, 480, 6.4)
	require.True(t, ok)
	assert.True(t, c.Calibrated())
	assert.InDelta(t, 0.05, c.Factor(), 1e-12)
}

func TestCalibration_Idempotent(t *testing.T) {
	var c Calibration
	require.True(t, c.Calibrate(palmHand(0.3, 0.5), 640, 480, 6.4))
	factor := c.Factor()

	assert.False(t, c.Calibrate(palmHand(0.2, 0.8), 640, 480, 6.4))
	assert.False(t, c.Calibrate(palmHand(0.3, 0.5), 1280, 720, 7.36))
	assert.Equal(t, factor, c.Factor())

	c.Reset()
	assert.False(t, c.Calibrated())
	require.True(t, c.Calibrate(palmHand(0.2, 0.8), 640, 480, 6.4))
	assert.NotEqual(t, factor, c.Factor())
}

func TestCalibration_RejectsZeroWidth(t *testing.T) {
	var c Calibration

	assert.False(t, c.Calibrate(palmHand(0.4, 0.4), 640, 480, 6.4))
	assert.False(t, c.Calibrated())
	assert.False(t, c.Calibrate(nil, 640, 480, 6.4))
	assert.False(t, c.Calibrate(palmHand(0.3, 0.5), 640, 480, 0))
	assert.False(t, c.Calibrated())
}

func TestPalmWidthPixels_NonSquareCanvas(t *testing.T) {
	var h detector.HandLandmarks
	h.Points[detector.IndexMCP] = detector.Point3D{X: 0.5, Y: 0.4}
	h.Points[detector.PinkyMCP] = detector.Point3D{X: 0.5, Y: 0.6}

	// Vertical distance scales with height, not width.
	assert.InDelta(t, 96.0, PalmWidthPixels(&h, 640, 480), 1e-9)
}
