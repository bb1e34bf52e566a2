package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/ayusman/armascan/internal/detector"
)

func TestCompute_PalmWidthExample(t *testing.T) {
	m := Compute(palmHand(0.3, 0.5), 640, 480, 0.05)
	assert.InDelta(t, 6.4, m.PalmWidth, 1e-9)
}

// straightHand has every finger pointing straight up on a 100x100 canvas so
// that segment lengths are easy to read off.
func straightHand() *detector.HandLandmarks {
	var h detector.HandLandmarks
	set := func(i int, x, y float64) { h.Points[i] = detector.Point3D{X: x, Y: y} }

	set(detector.Wrist, 0.5, 0.9)

	set(detector.ThumbCMC, 0.25, 0.8)
	set(detector.ThumbMCP, 0.2, 0.7)
	set(detector.ThumbIP, 0.1, 0.7)
	set(detector.ThumbTip, 0.1, 0.6)

	set(detector.IndexMCP, 0.3, 0.6)
	set(detector.IndexPIP, 0.3, 0.5)
	set(detector.IndexDIP, 0.3, 0.45)
	set(detector.IndexTip, 0.3, 0.4)

	set(detector.MiddleMCP, 0.5, 0.6)
	set(detector.MiddlePIP, 0.5, 0.5)
	set(detector.MiddleDIP, 0.5, 0.4)
	set(detector.MiddleTip, 0.5, 0.2)

	set(detector.RingMCP, 0.6, 0.6)
	set(detector.RingPIP, 0.6, 0.5)
	set(detector.RingDIP, 0.6, 0.4)
	set(detector.RingTip, 0.6, 0.3)

	set(detector.PinkyMCP, 0.7, 0.6)
	set(detector.PinkyPIP, 0.7, 0.55)
	set(detector.PinkyDIP, 0.7, 0.5)
	set(detector.PinkyTip, 0.7, 0.45)

	return &h
}

func TestCompute(t *testing.T) {
	got := Compute(straightHand(), 100, 100, 0.5)

	want := Measurements{
		PalmWidth:       20,
		PalmLength:      15,
		TotalHandLength: 35,
		FingerLengths: map[detector.Finger]float64{
			detector.Thumb:  10,
			detector.Index:  10,
			detector.Middle: 20,
			detector.Ring:   15,
			detector.Pinky:  7.5,
		},
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_IsPure(t *testing.T) {
	hand := straightHand()
	before := *hand

	a := Compute(hand, 640, 480, 0.03)
	b := Compute(hand, 640, 480, 0.03)

	assert.Equal(t, before, *hand)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated Compute() differs:\n%s", diff)
	}
}

func TestMeasurements_Clone(t *testing.T) {
	var nilM *Measurements
	assert.Nil(t, nilM.clone())

	m := Compute(straightHand(), 100, 100, 1)
	c := m.clone()
	c.FingerLengths[detector.Thumb] = 99
	assert.InDelta(t, 20.0, m.FingerLengths[detector.Thumb], 1e-9)
}
