package scan

import "strings"

// Hand identifies the left or right hand. The zero value means no hand.
type Hand string

const (
	NoHand Hand = ""
	Left   Hand = "left"
	Right  Hand = "right"
)

// HandFromLabel converts a detector handedness label such as "Left" into a
// Hand. Unrecognized labels map to NoHand.
func HandFromLabel(label string) Hand {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "left":
		return Left
	case "right":
		return Right
	}
	return NoHand
}

// Opposite returns the other hand. NoHand stays NoHand.
func (h Hand) Opposite() Hand {
	switch h {
	case Left:
		return Right
	case Right:
		return Left
	}
	return NoHand
}

// Progress counts completed scans per hand.
type Progress struct {
	LeftCount  int `json:"left_count"`
	RightCount int `json:"right_count"`
}

// Required returns the hand that still needs scanning: left until it has
// been scanned once, then right, then NoHand.
func (p Progress) Required() Hand {
	switch {
	case p.LeftCount == 0:
		return Left
	case p.RightCount == 0:
		return Right
	}
	return NoHand
}

// Done reports whether both hands have been scanned.
func (p Progress) Done() bool {
	return p.LeftCount >= 1 && p.RightCount >= 1
}

func (p *Progress) record(h Hand) {
	switch h {
	case Left:
		p.LeftCount++
	case Right:
		p.RightCount++
	}
}
