package scan

import "time"

// Config holds the thresholds that drive a scan session.
type Config struct {
	// CanvasWidth and CanvasHeight are used for frames that do not report
	// their own dimensions.
	CanvasWidth  int
	CanvasHeight int

	// CalibrateFit is the fit score a frame must exceed to calibrate.
	CalibrateFit float64

	// TrackFit is the fit score a frame must exceed to advance a scan.
	TrackFit float64

	// MeasureFit is the fit score a frame must exceed to be measured.
	MeasureFit float64

	// MinVectorPx is the shortest wrist to index knuckle vector, in pixels,
	// that is trusted for an angle reading.
	MinVectorPx float64

	// MaxStepDeg caps the rotation credited for a single frame.
	MaxStepDeg float64

	// RotationDeg is the accumulated rotation that completes a scan.
	RotationDeg float64

	// Dwell is how long a matching hand must be held to complete a scan.
	Dwell time.Duration

	// Settle is the delay between a scan completing and it being counted.
	Settle time.Duration

	// RelaxRightHand accepts any detected hand while the right hand is
	// required.
	RelaxRightHand bool

	Fit FitEvaluator
}

// DefaultConfig returns the thresholds the scanner ships with.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:    640,
		CanvasHeight:   480,
		CalibrateFit:   70,
		TrackFit:       60,
		MeasureFit:     70,
		MinVectorPx:    20,
		MaxStepDeg:     30,
		RotationDeg:    160,
		Dwell:          1200 * time.Millisecond,
		Settle:         3000 * time.Millisecond,
		RelaxRightHand: true,
		Fit:            DefaultFitEvaluator(),
	}
}
