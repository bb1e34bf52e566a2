package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/armascan/internal/capture"
	"github.com/ayusman/armascan/internal/detector"
	"github.com/ayusman/armascan/internal/scan"
	"gocv.io/x/gocv"
)

// runPipeline is the frame loop. Each tick reads one frame, runs the
// detector on it synchronously and feeds the result to the session, so at
// most one inference is ever in flight. Ticks that produce no detection
// still give a settling completion the chance to land.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}, det detector.Detector) {
	defer close(doneCh)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	readFailing := false

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				if !readFailing && !errors.Is(err, capture.ErrNoFrame) {
					log.Printf("Error reading frame: %v", err)
				}
				readFailing = true
				a.tick(now)
				continue
			}
			readFailing = false

			a.processFrame(frame, det, now)
			frame.Close()
		}
	}
}

func (a *App) processFrame(frame *gocv.Mat, det detector.Detector, now time.Time) {
	if jpeg, err := capture.EncodeJPEG(frame); err == nil {
		a.mu.Lock()
		a.preview = jpeg
		a.mu.Unlock()
	}

	hands, err := det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		a.tick(now)
		return
	}

	a.mu.Lock()
	st := a.session.ProcessFrame(scan.Frame{
		Hand:   detector.First(hands),
		Width:  frame.Cols(),
		Height: frame.Rows(),
		Time:   now,
	})
	st = a.publishLocked(st)
	subs := a.subscribersLocked()
	a.mu.Unlock()

	notify(subs, st)
}

// tick advances the session clock without a frame and publishes only when
// that changed the scan progress.
func (a *App) tick(now time.Time) {
	a.mu.Lock()
	prev := a.status
	st := a.session.Tick(now)
	changed := st.Processing != prev.Processing || st.LeftCount != prev.LeftCount || st.RightCount != prev.RightCount
	if !changed {
		a.mu.Unlock()
		return
	}
	st = a.publishLocked(st)
	subs := a.subscribersLocked()
	a.mu.Unlock()

	notify(subs, st)
}
