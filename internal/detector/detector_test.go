package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxHands != 1 {
		t.Errorf("expected MaxHands 1, got %d", cfg.MaxHands)
	}
	if cfg.ModelComplexity != 1 {
		t.Errorf("expected ModelComplexity 1, got %d", cfg.ModelComplexity)
	}
	if cfg.MinConfidence != 0.5 || cfg.MinTrackingConf != 0.5 {
		t.Errorf("expected confidences 0.5/0.5, got %f/%f", cfg.MinConfidence, cfg.MinTrackingConf)
	}
}

func TestFirst(t *testing.T) {
	t.Run("nil for no hands", func(t *testing.T) {
		if got := First(nil); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns copy of first hand", func(t *testing.T) {
		hands := []HandLandmarks{OpenPalmLandmarks(), LeftOpenPalmLandmarks()}
		got := First(hands)
		if got == nil {
			t.Fatal("expected a hand")
		}
		if got.Handedness != "Right" {
			t.Errorf("expected Right, got %s", got.Handedness)
		}

		got.Points[Wrist].X = 0
		if hands[0].Points[Wrist].X == 0 {
			t.Error("First should not alias the input slice")
		}
	})
}

func TestChain(t *testing.T) {
	tests := []struct {
		finger Finger
		want   []int
	}{
		{Thumb, []int{2, 3, 4}},
		{Index, []int{5, 6, 7, 8}},
		{Middle, []int{9, 10, 11, 12}},
		{Ring, []int{13, 14, 15, 16}},
		{Pinky, []int{17, 18, 19, 20}},
	}

	for _, tt := range tests {
		t.Run(string(tt.finger), func(t *testing.T) {
			got := Chain(tt.finger)
			if len(got) != len(tt.want) {
				t.Fatalf("Chain(%s) = %v, want %v", tt.finger, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Chain(%s) = %v, want %v", tt.finger, got, tt.want)
				}
			}
		})
	}

	if Chain("wrist") != nil {
		t.Error("expected nil chain for unknown finger")
	}
}

func TestHandLandmarks_Pixel(t *testing.T) {
	hand := HandLandmarks{}
	hand.Points[IndexMCP] = Point3D{X: 0.25, Y: 0.5}

	x, y := hand.Pixel(IndexMCP, 640, 480)
	if x != 160 || y != 240 {
		t.Errorf("Pixel() = (%f, %f), want (160, 240)", x, y)
	}
}

func TestHandLandmarks_Mirrored(t *testing.T) {
	right := OpenPalmLandmarks()
	left := right.Mirrored()

	if left.Handedness != "Left" {
		t.Errorf("expected handedness Left, got %s", left.Handedness)
	}
	for i := range right.Points {
		if math.Abs(left.Points[i].X-(1-right.Points[i].X)) > epsilon {
			t.Errorf("point %d X = %f, want %f", i, left.Points[i].X, 1-right.Points[i].X)
		}
		if left.Points[i].Y != right.Points[i].Y {
			t.Errorf("point %d Y changed", i)
		}
	}

	unlabeled := HandLandmarks{}
	if got := unlabeled.Mirrored().Handedness; got != "" {
		t.Errorf("expected empty handedness to stay empty, got %q", got)
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Errorf("expected 1 hand, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected Closed() after Close")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestOpenPalmLandmarks(t *testing.T) {
	landmarks := OpenPalmLandmarks()

	t.Run("bounding box matches target occupancy", func(t *testing.T) {
		minX, maxX, minY, maxY := 1.0, 0.0, 1.0, 0.0
		for _, p := range landmarks.Points {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
		if math.Abs((maxX-minX)-0.45) > 1e-6 {
			t.Errorf("width = %f, want 0.45", maxX-minX)
		}
		if math.Abs((maxY-minY)-0.55) > 1e-6 {
			t.Errorf("height = %f, want 0.55", maxY-minY)
		}
	})

	t.Run("all fingers are extended", func(t *testing.T) {
		for _, f := range []Finger{Index, Middle, Ring, Pinky} {
			chain := Chain(f)
			base, tip := landmarks.Points[chain[0]], landmarks.Points[chain[len(chain)-1]]
			if base.Y-tip.Y < 0.15 {
				t.Errorf("%s finger not extended (base %f, tip %f)", f, base.Y, tip.Y)
			}
		}
	})
}

func TestRotateAboutWrist(t *testing.T) {
	hand := OpenPalmLandmarks()

	t.Run("wrist is fixed", func(t *testing.T) {
		rotated := RotateAboutWrist(hand, 45, 640, 480)
		if math.Abs(rotated.Points[Wrist].X-hand.Points[Wrist].X) > epsilon ||
			math.Abs(rotated.Points[Wrist].Y-hand.Points[Wrist].Y) > epsilon {
			t.Errorf("wrist moved: %+v -> %+v", hand.Points[Wrist], rotated.Points[Wrist])
		}
	})

	t.Run("rotates wrist to index vector in pixel space", func(t *testing.T) {
		angle := func(h HandLandmarks) float64 {
			wx, wy := h.Pixel(Wrist, 640, 480)
			ix, iy := h.Pixel(IndexMCP, 640, 480)
			return math.Atan2(iy-wy, ix-wx) * 180 / math.Pi
		}

		rotated := RotateAboutWrist(hand, 30, 640, 480)
		if diff := angle(rotated) - angle(hand); math.Abs(diff-30) > 1e-6 {
			t.Errorf("rotation = %f degrees, want 30", diff)
		}
	})
}
