package scan

import "github.com/ayusman/armascan/internal/sizing"

// Status is a point-in-time view of a session, safe to share between
// goroutines.
type Status struct {
	SessionID    string        `json:"session_id"`
	State        State         `json:"state"`
	RequiredHand Hand          `json:"required_hand"`
	LeftCount    int           `json:"left_count"`
	RightCount   int           `json:"right_count"`
	HandDetected bool          `json:"hand_detected"`
	CurrentHand  Hand          `json:"current_hand"`
	FitScore     float64       `json:"fit_score"`
	Calibrated   bool          `json:"calibrated"`
	PixelToCm    float64       `json:"pixel_to_cm"`
	Processing   bool          `json:"processing"`
	RotationDeg  float64       `json:"rotation_deg"`
	Done         bool          `json:"done"`
	Prompt       string        `json:"prompt"`
	GloveSize    string        `json:"glove_size,omitempty"`
	Sport        sizing.Sport  `json:"sport,omitempty"`
	Mirrored     bool          `json:"mirrored"`
	Measurements *Measurements `json:"measurements,omitempty"`

	// Running and Error are filled in by the capture pipeline.
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}
