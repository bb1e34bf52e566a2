// Package scan implements the guided two-hand scan: fit scoring,
// calibration against a declared glove size, rotation and dwell based scan
// completion, and hand measurement.
package scan

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/armascan/internal/detector"
	"github.com/ayusman/armascan/internal/sizing"
)

// Frame is one processed camera frame. A nil Hand means nothing was
// detected.
type Frame struct {
	Hand   *detector.HandLandmarks
	Width  int
	Height int
	Time   time.Time
}

// Session owns the state of one scan from the first left hand frame through
// to both hands being captured. It is not safe for concurrent use.
type Session struct {
	config      Config
	id          string
	size        *sizing.GloveSize
	sport       sizing.Sport
	mirrored    bool
	calibration Calibration
	sequencer   *Sequencer
	progress    Progress
	last        *Measurements

	handDetected bool
	currentHand  Hand
	accepted     bool
	fit          float64
}

// NewSession creates a session awaiting the left hand.
func NewSession(config Config) *Session {
	return &Session{
		config:    config,
		id:        uuid.New().String(),
		sequencer: NewSequencer(config),
	}
}

// ID returns the session identifier. It changes on Reset.
func (s *Session) ID() string { return s.id }

// ProcessFrame advances the session by one frame and returns the resulting
// status.
func (s *Session) ProcessFrame(frame Frame) Status {
	s.settle(frame.Time)

	if frame.Hand == nil {
		s.handDetected = false
		s.currentHand = NoHand
		s.accepted = false
		s.fit = 0
		s.sequencer.ResetAttempt()
		return s.Status()
	}

	width, height := s.canvas(frame)
	hand := frame.Hand
	raw := HandFromLabel(hand.Handedness)
	adjusted := raw
	if s.mirrored {
		adjusted = raw.Opposite()
	}

	s.handDetected = true
	s.currentHand = adjusted
	s.fit = s.config.Fit.Score(hand.Points[:])

	if !s.calibration.Calibrated() && s.fit > s.config.CalibrateFit && s.size != nil {
		if s.calibration.Calibrate(hand, width, height, s.size.PalmWidthCm) {
			log.Printf("Calibrated for size %s: %.5f cm/px", s.size.Key, s.calibration.Factor())
		}
	}

	required := s.RequiredHand()
	s.accepted = s.sequencer.Accepts(required, raw, adjusted)
	completed := s.sequencer.Observe(required, Observation{
		Hand:     hand,
		Raw:      raw,
		Adjusted: adjusted,
		Fit:      s.fit,
		Width:    width,
		Height:   height,
		Time:     frame.Time,
	})
	if completed {
		log.Printf("Captured %s hand, settling", required)
		s.settle(frame.Time)
	}

	if s.calibration.Calibrated() && s.fit > s.config.MeasureFit {
		m := Compute(hand, width, height, s.calibration.Factor())
		s.last = &m
	}

	return s.Status()
}

// Tick releases a settled completion without a new frame.
func (s *Session) Tick(now time.Time) Status {
	s.settle(now)
	return s.Status()
}

func (s *Session) settle(now time.Time) {
	if hand, ok := s.sequencer.Settle(now); ok {
		s.RecordCompletion(hand)
	}
}

func (s *Session) canvas(frame Frame) (int, int) {
	if frame.Width > 0 && frame.Height > 0 {
		return frame.Width, frame.Height
	}
	return s.config.CanvasWidth, s.config.CanvasHeight
}

// RecordCompletion counts a completed scan of hand.
func (s *Session) RecordCompletion(hand Hand) {
	s.progress.record(hand)
	log.Printf("Scan recorded: left=%d right=%d", s.progress.LeftCount, s.progress.RightCount)
	if s.progress.Done() {
		log.Printf("Session %s complete", s.id)
	}
}

// RequiredHand returns the hand that must be presented next, or NoHand once
// the session is done.
func (s *Session) RequiredHand() Hand {
	return s.progress.Required()
}

// IsDone reports whether both hands have been captured.
func (s *Session) IsDone() bool {
	return s.progress.Done()
}

// Progress returns the completed scan counts.
func (s *Session) Progress() Progress {
	return s.progress
}

// Calibration returns the current calibration.
func (s *Session) Calibration() Calibration {
	return s.calibration
}

// Measurements returns a copy of the most recent measurement, or nil.
func (s *Session) Measurements() *Measurements {
	return s.last.clone()
}

// Reset starts over with a new session ID. The selected size, sport and
// mirroring are kept.
func (s *Session) Reset() {
	s.id = uuid.New().String()
	s.progress = Progress{}
	s.calibration.Reset()
	s.sequencer.Cancel()
	s.last = nil
	s.handDetected = false
	s.currentHand = NoHand
	s.accepted = false
	s.fit = 0
}

// CancelPending drops a completion that has not yet settled.
func (s *Session) CancelPending() {
	s.sequencer.Cancel()
}

// SelectSize sets the reference glove size. A session already calibrated
// against another size is reset, and true is returned.
func (s *Session) SelectSize(size sizing.GloveSize) bool {
	reset := false
	if s.calibration.Calibrated() && (s.size == nil || s.size.Key != size.Key) {
		s.Reset()
		reset = true
	}
	s.size = &size
	return reset
}

// Size returns the selected glove size, or nil.
func (s *Session) Size() *sizing.GloveSize {
	return s.size
}

// SelectSport records the sport the gloves are for.
func (s *Session) SelectSport(sport sizing.Sport) {
	s.sport = sport
}

// SetMirrored sets whether frames come from a front-facing camera, in which
// case detector handedness is swapped.
func (s *Session) SetMirrored(mirrored bool) {
	s.mirrored = mirrored
}

// Mirrored reports whether handedness is being swapped.
func (s *Session) Mirrored() bool { return s.mirrored }

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	st := Status{
		SessionID:    s.id,
		State:        s.state(),
		RequiredHand: s.RequiredHand(),
		LeftCount:    s.progress.LeftCount,
		RightCount:   s.progress.RightCount,
		HandDetected: s.handDetected,
		CurrentHand:  s.currentHand,
		FitScore:     s.fit,
		Calibrated:   s.calibration.Calibrated(),
		PixelToCm:    s.calibration.Factor(),
		Processing:   s.sequencer.Processing(),
		RotationDeg:  s.sequencer.Rotation(),
		Done:         s.IsDone(),
		Sport:        s.sport,
		Mirrored:     s.mirrored,
		Measurements: s.last.clone(),
	}
	if s.size != nil {
		st.GloveSize = s.size.Key
	}
	st.Prompt = s.prompt()
	return st
}

func (s *Session) state() State {
	switch {
	case s.IsDone():
		return StateDone
	case s.sequencer.Processing():
		return StateProcessing
	case s.sequencer.Tracking():
		return StateTracking
	}
	return StateAwaiting
}

func (s *Session) prompt() string {
	required := s.RequiredHand()
	switch {
	case s.IsDone():
		return "Scan complete"
	case s.sequencer.Processing():
		return "Processing scan..."
	case !s.handDetected, !s.accepted:
		return fmt.Sprintf("Show your %s hand", required)
	case s.fit <= s.config.TrackFit:
		return fmt.Sprintf("Move closer (%.0f%%)", s.fit)
	}
	return "Hold steady..."
}
