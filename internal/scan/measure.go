package scan

import "github.com/ayusman/armascan/internal/detector"

// Measurements are hand dimensions in centimeters.
type Measurements struct {
	PalmWidth       float64                     `json:"palm_width"`
	PalmLength      float64                     `json:"palm_length"`
	TotalHandLength float64                     `json:"total_hand_length"`
	FingerLengths   map[detector.Finger]float64 `json:"finger_lengths"`
}

// Compute measures hand on a width x height canvas, scaling pixel distances
// by pixelToCm.
func Compute(hand *detector.HandLandmarks, width, height int, pixelToCm float64) Measurements {
	m := Measurements{
		PalmWidth:       pixelDistance(hand, detector.IndexMCP, detector.PinkyMCP, width, height) * pixelToCm,
		PalmLength:      pixelDistance(hand, detector.Wrist, detector.MiddleMCP, width, height) * pixelToCm,
		TotalHandLength: pixelDistance(hand, detector.Wrist, detector.MiddleTip, width, height) * pixelToCm,
		FingerLengths:   make(map[detector.Finger]float64, len(detector.Fingers)),
	}
	for _, f := range detector.Fingers {
		m.FingerLengths[f] = chainLength(hand, detector.Chain(f), width, height) * pixelToCm
	}
	return m
}

func (m *Measurements) clone() *Measurements {
	if m == nil {
		return nil
	}
	out := *m
	out.FingerLengths = make(map[detector.Finger]float64, len(m.FingerLengths))
	for k, v := range m.FingerLengths {
		out.FingerLengths[k] = v
	}
	return &out
}
