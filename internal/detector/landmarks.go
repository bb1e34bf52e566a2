// Package detector provides the hand landmark source used by the scanner.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger names a digit of the hand.
type Finger string

const (
	Thumb  Finger = "thumb"
	Index  Finger = "index"
	Middle Finger = "middle"
	Ring   Finger = "ring"
	Pinky  Finger = "pinky"
)

// Fingers lists every finger in anatomical order, thumb first.
var Fingers = []Finger{Thumb, Index, Middle, Ring, Pinky}

// fingerChains holds the landmark chain measured for each finger. The thumb
// chain starts at the MCP joint; the CMC joint sits inside the palm.
var fingerChains = map[Finger][]int{
	Thumb:  {ThumbMCP, ThumbIP, ThumbTip},
	Index:  {IndexMCP, IndexPIP, IndexDIP, IndexTip},
	Middle: {MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	Ring:   {RingMCP, RingPIP, RingDIP, RingTip},
	Pinky:  {PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}

// Chain returns the landmark indices from base to tip for the given finger.
// It returns nil for an unknown finger.
func Chain(f Finger) []int {
	return fingerChains[f]
}

// Point3D is a landmark position. X and Y are normalized to [0,1] relative to
// the frame width and height; Z is relative depth and is ignored by the
// measurement code.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left", "Right" or empty
	Score      float64               `json:"score"`
}

// Pixel returns landmark i scaled to a width x height pixel grid.
func (h *HandLandmarks) Pixel(i, width, height int) (x, y float64) {
	p := h.Points[i]
	return p.X * float64(width), p.Y * float64(height)
}

// Mirrored returns a copy of the hand flipped horizontally, with the
// handedness label swapped.
func (h HandLandmarks) Mirrored() HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i].X = 1 - out.Points[i].X
	}
	switch h.Handedness {
	case "Left":
		out.Handedness = "Right"
	case "Right":
		out.Handedness = "Left"
	}
	return out
}
