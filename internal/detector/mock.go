package detector

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// OpenPalmLandmarks returns a right hand held upright with the fingers
// spread. Its bounding box spans 0.45 x 0.55 of the frame, which is exactly
// the scanner's target occupancy.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.58, Y: 0.76}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.64, Y: 0.70}
	landmarks.Points[ThumbIP] = Point3D{X: 0.69, Y: 0.64}
	landmarks.Points[ThumbTip] = Point3D{X: 0.725, Y: 0.58}

	landmarks.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.56}
	landmarks.Points[IndexPIP] = Point3D{X: 0.575, Y: 0.45}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.38}
	landmarks.Points[IndexTip] = Point3D{X: 0.585, Y: 0.32}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.55}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.43}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.34}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.25}

	landmarks.Points[RingMCP] = Point3D{X: 0.44, Y: 0.56}
	landmarks.Points[RingPIP] = Point3D{X: 0.425, Y: 0.45}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.38}
	landmarks.Points[RingTip] = Point3D{X: 0.415, Y: 0.31}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.39, Y: 0.60}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.35, Y: 0.52}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.31, Y: 0.46}
	landmarks.Points[PinkyTip] = Point3D{X: 0.275, Y: 0.41}

	return landmarks
}

// LeftOpenPalmLandmarks returns the mirror image of OpenPalmLandmarks.
func LeftOpenPalmLandmarks() HandLandmarks {
	return OpenPalmLandmarks().Mirrored()
}

// RotateAboutWrist rotates every landmark around the wrist by deg degrees in
// a width x height pixel space and returns the result in normalized
// coordinates. Rotating in pixel space keeps angles true on non-square
// frames.
func RotateAboutWrist(h HandLandmarks, deg float64, width, height int) HandLandmarks {
	out := h
	w, ht := float64(width), float64(height)
	cx, cy := h.Points[Wrist].X*w, h.Points[Wrist].Y*ht
	sin, cos := math.Sincos(deg * math.Pi / 180)

	for i, p := range h.Points {
		px, py := p.X*w-cx, p.Y*ht-cy
		out.Points[i].X = (cx + px*cos - py*sin) / w
		out.Points[i].Y = (cy + px*sin + py*cos) / ht
	}
	return out
}
