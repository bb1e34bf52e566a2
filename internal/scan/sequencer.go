package scan

import (
	"math"
	"time"

	"github.com/ayusman/armascan/internal/detector"
)

// rotationEpsilon absorbs float error when summing per-frame angle deltas so
// that a pass of exactly RotationDeg completes.
const rotationEpsilon = 1e-6

// State is the phase of a scan session.
type State string

const (
	StateAwaiting   State = "awaiting_hand"
	StateTracking   State = "tracking"
	StateProcessing State = "processing"
	StateDone       State = "done"
)

// Observation is one detected hand as seen by the Sequencer.
type Observation struct {
	Hand *detector.HandLandmarks

	// Raw is the handedness reported by the detector; Adjusted is Raw after
	// mirroring for a front-facing camera.
	Raw      Hand
	Adjusted Hand

	Fit    float64
	Width  int
	Height int
	Time   time.Time
}

// attempt accumulates evidence for the hand currently being scanned.
type attempt struct {
	rotation   float64 // degrees
	dwelling   bool
	dwellStart time.Time
	hasPrev    bool
	prevAngle  float64 // radians
}

type pendingCompletion struct {
	hand Hand
	due  time.Time
}

// Sequencer decides when the presented hand has been scanned. A scan
// completes once the hand has rotated far enough or been held long enough;
// completions are then held for a settle period before being released by
// Settle.
//
// Sequencer is not safe for concurrent use.
type Sequencer struct {
	config  Config
	attempt attempt
	pending *pendingCompletion
}

// NewSequencer creates a Sequencer with the given thresholds.
func NewSequencer(config Config) *Sequencer {
	return &Sequencer{config: config}
}

// Observe feeds one detected hand. It returns true when this observation
// completed a scan of the required hand, which then enters processing.
func (s *Sequencer) Observe(required Hand, obs Observation) bool {
	if !s.shouldAdvance(required, obs) {
		s.attempt = attempt{}
		return false
	}

	if pixelDistance(obs.Hand, detector.Wrist, detector.IndexMCP, obs.Width, obs.Height) > s.config.MinVectorPx {
		wx, wy := obs.Hand.Pixel(detector.Wrist, obs.Width, obs.Height)
		ix, iy := obs.Hand.Pixel(detector.IndexMCP, obs.Width, obs.Height)
		angle := math.Atan2(iy-wy, ix-wx)

		if s.attempt.hasPrev {
			delta := math.Abs(wrapAngle(angle-s.attempt.prevAngle)) * 180 / math.Pi
			s.attempt.rotation += math.Min(delta, s.config.MaxStepDeg)
		}
		s.attempt.prevAngle = angle
		s.attempt.hasPrev = true
	}

	if !s.attempt.dwelling {
		s.attempt.dwelling = true
		s.attempt.dwellStart = obs.Time
	}

	rotated := s.attempt.rotation >= s.config.RotationDeg-rotationEpsilon
	held := obs.Time.Sub(s.attempt.dwellStart) >= s.config.Dwell
	if !rotated && !held {
		return false
	}

	s.pending = &pendingCompletion{hand: required, due: obs.Time.Add(s.config.Settle)}
	s.attempt = attempt{}
	return true
}

func (s *Sequencer) shouldAdvance(required Hand, obs Observation) bool {
	if s.pending != nil || required == NoHand || obs.Hand == nil {
		return false
	}
	if obs.Fit <= s.config.TrackFit {
		return false
	}
	return s.Accepts(required, obs.Raw, obs.Adjusted)
}

// Accepts reports whether a hand labelled raw (adjusted after mirroring)
// satisfies required.
func (s *Sequencer) Accepts(required, raw, adjusted Hand) bool {
	if required == NoHand || raw == required || adjusted == required {
		return true
	}
	return required == Right && s.config.RelaxRightHand
}

// Settle releases a processed completion whose settle period has elapsed by
// now. It returns the completed hand and true at most once per completion.
func (s *Sequencer) Settle(now time.Time) (Hand, bool) {
	if s.pending == nil || now.Before(s.pending.due) {
		return NoHand, false
	}
	hand := s.pending.hand
	s.pending = nil
	s.attempt = attempt{}
	return hand, true
}

// ResetAttempt discards any partial rotation or dwell progress.
func (s *Sequencer) ResetAttempt() {
	s.attempt = attempt{}
}

// Cancel drops a completion that is still settling, along with any attempt.
func (s *Sequencer) Cancel() {
	s.pending = nil
	s.attempt = attempt{}
}

// Processing reports whether a completion is waiting to settle.
func (s *Sequencer) Processing() bool {
	return s.pending != nil
}

// Tracking reports whether an attempt is in progress.
func (s *Sequencer) Tracking() bool {
	return s.attempt.dwelling
}

// Rotation returns the rotation accumulated by the current attempt, in
// degrees.
func (s *Sequencer) Rotation() float64 {
	return s.attempt.rotation
}

// wrapAngle maps an angle difference into (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
