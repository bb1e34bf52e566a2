// Package app runs the scan pipeline: it owns the camera, the hand detector
// and the scan session, and publishes status snapshots to the server and
// tray.
package app

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/ayusman/armascan/internal/capture"
	"github.com/ayusman/armascan/internal/detector"
	"github.com/ayusman/armascan/internal/scan"
	"github.com/ayusman/armascan/internal/sizing"
	"github.com/ayusman/armascan/internal/store"
)

var (
	// ErrDevice is returned when the camera cannot be opened.
	ErrDevice = errors.New("camera unavailable")

	// ErrDetectorInit is returned when hand tracking fails to start.
	ErrDetectorInit = errors.New("hand tracking failed to initialize")
)

// DetectorFactory creates a hand detector. It is called on every Start.
type DetectorFactory func(config detector.Config) (detector.Detector, error)

// Config holds configuration options for the application.
type Config struct {
	Store *store.Store

	// Camera overrides the device described by Capture.
	Camera  capture.Camera
	Capture capture.Config

	// NewDetector overrides the MediaPipe detector.
	NewDetector DetectorFactory
	Detector    detector.Config

	Scan scan.Config

	// Mirrored treats frames as coming from a front-facing camera.
	Mirrored bool
}

// DefaultConfig returns a configuration for the default camera and the
// MediaPipe detector.
func DefaultConfig() Config {
	return Config{
		Capture:  capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		Scan:     scan.DefaultConfig(),
		Mirrored: true,
	}
}

// App is the main application that drives a scan session from camera frames.
type App struct {
	config      Config
	camera      capture.Camera
	newDetector DetectorFactory

	// lifecycle serializes Start, Stop and Reset.
	lifecycle sync.Mutex

	mu          sync.RWMutex
	detector    detector.Detector
	session     *scan.Session
	status      scan.Status
	lastErr     error
	preview     []byte
	subscribers map[int]func(scan.Status)
	nextSub     int
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Capture == (capture.Config{}) {
		config.Capture = capture.DefaultConfig()
	}
	if config.Detector == (detector.Config{}) {
		config.Detector = detector.DefaultConfig()
	}
	if config.Scan == (scan.Config{}) {
		config.Scan = scan.DefaultConfig()
	}

	a := &App{
		config:      config,
		camera:      config.Camera,
		newDetector: config.NewDetector,
		session:     scan.NewSession(config.Scan),
		subscribers: make(map[int]func(scan.Status)),
	}
	if a.camera == nil {
		a.camera = capture.NewCamera(config.Capture)
	}
	if a.newDetector == nil {
		a.newDetector = func(c detector.Config) (detector.Detector, error) {
			return detector.NewMediaPipeDetector(c)
		}
	}
	a.session.SetMirrored(config.Mirrored)
	a.status = a.session.Status()

	return a
}

// RestoreSettings applies the glove size, sport and mirroring saved by a
// previous run. Missing settings are skipped.
func (a *App) RestoreSettings() error {
	if a.config.Store == nil {
		return nil
	}

	settings, err := a.config.Store.Settings().All()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if key, ok := settings[store.SettingGloveSize]; ok {
		if err := a.applySize(key); err != nil {
			log.Printf("Ignoring saved glove size %q: %v", key, err)
		}
	}
	if name, ok := settings[store.SettingSport]; ok {
		if sport, err := sizing.ParseSport(name); err == nil {
			a.withSession(func(s *scan.Session) { s.SelectSport(sport) })
		}
	}
	if v, ok := settings[store.SettingMirrored]; ok {
		if mirrored, err := strconv.ParseBool(v); err == nil {
			a.withSession(func(s *scan.Session) { s.SetMirrored(mirrored) })
		}
	}
	return nil
}

// SelectSize sets the reference glove size by key and saves the choice.
func (a *App) SelectSize(key string) error {
	if err := a.applySize(key); err != nil {
		return err
	}
	return a.saveSetting(store.SettingGloveSize, key)
}

func (a *App) applySize(key string) error {
	size, err := a.lookupSize(key)
	if err != nil {
		return err
	}
	a.withSession(func(s *scan.Session) {
		if s.SelectSize(*size) {
			log.Printf("Glove size changed to %s, session restarted", size.Key)
		}
	})
	return nil
}

func (a *App) lookupSize(key string) (*sizing.GloveSize, error) {
	if a.config.Store == nil {
		size, err := sizing.Lookup(key)
		if err != nil {
			return nil, err
		}
		return &size, nil
	}

	size, err := a.config.Store.Sizes().GetByKey(key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", sizing.ErrUnknownSize, key)
	}
	return size, err
}

// SelectSport records the sport the gloves are for and saves the choice.
func (a *App) SelectSport(name string) error {
	sport, err := sizing.ParseSport(name)
	if err != nil {
		return err
	}
	a.withSession(func(s *scan.Session) { s.SelectSport(sport) })
	return a.saveSetting(store.SettingSport, string(sport))
}

// SetMirrored sets whether the camera faces the user and saves the choice.
func (a *App) SetMirrored(mirrored bool) error {
	a.withSession(func(s *scan.Session) { s.SetMirrored(mirrored) })
	return a.saveSetting(store.SettingMirrored, strconv.FormatBool(mirrored))
}

func (a *App) saveSetting(key, value string) error {
	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// withSession runs fn against the session under the lock and publishes the
// resulting status.
func (a *App) withSession(fn func(s *scan.Session)) {
	a.mu.Lock()
	fn(a.session)
	st := a.publishLocked(a.session.Status())
	subs := a.subscribersLocked()
	a.mu.Unlock()

	notify(subs, st)
}

// Status returns the latest status snapshot.
func (a *App) Status() scan.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Err returns the error that stopped scanning, if any.
func (a *App) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

// IsRunning reports whether the pipeline is running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// LatestFrame returns the most recent camera frame as JPEG, or nil.
func (a *App) LatestFrame() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.preview
}

// Subscribe registers fn to receive every published status. fn is called
// from the pipeline goroutine and must not block. The returned function
// removes the subscription.
func (a *App) Subscribe(fn func(scan.Status)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subscribers, id)
	}
}

func (a *App) subscribersLocked() []func(scan.Status) {
	subs := make([]func(scan.Status), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(scan.Status), st scan.Status) {
	for _, fn := range subs {
		fn(st)
	}
}

// publishLocked fills in pipeline fields and stores st as the latest status.
func (a *App) publishLocked(st scan.Status) scan.Status {
	st.Running = a.stopCh != nil
	st.Error = UserMessage(a.lastErr)
	a.status = st
	return st
}

// fail records err in the error slot.
func (a *App) fail(err error) {
	log.Printf("Scan error: %v", err)

	a.mu.Lock()
	a.lastErr = err
	st := a.publishLocked(a.session.Status())
	subs := a.subscribersLocked()
	a.mu.Unlock()

	notify(subs, st)
}

// UserMessage converts a pipeline error into the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDevice):
		return "Failed to initialize camera. Please check permissions and try again."
	case errors.Is(err, ErrDetectorInit):
		return "Failed to initialize hand tracking. Please reset and try again."
	}
	return err.Error()
}

// Start opens the detector and camera and begins the scan pipeline.
// Failures are stored in the error slot and returned.
func (a *App) Start() error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	return a.start()
}

func (a *App) start() error {
	if a.IsRunning() {
		return nil
	}

	det, err := a.newDetector(a.config.Detector)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrDetectorInit, err)
		a.fail(err)
		return err
	}

	if err := a.camera.Open(); err != nil {
		det.Close()
		err = fmt.Errorf("%w: %w", ErrDevice, err)
		a.fail(err)
		return err
	}
	a.camera.SetFPS(a.config.Capture.FPS)

	a.mu.Lock()
	a.detector = det
	a.lastErr = nil
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh, det)
	st := a.publishLocked(a.session.Status())
	subs := a.subscribersLocked()
	a.mu.Unlock()

	notify(subs, st)
	log.Println("Scan pipeline started")
	return nil
}

// Stop halts the pipeline, releases the camera and detector, and cancels a
// completion that is still settling.
func (a *App) Stop() {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	a.stop()
}

func (a *App) stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.mu.Lock()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
		a.detector = nil
	}
	a.stopCh = nil
	a.doneCh = nil
	a.session.CancelPending()
	st := a.publishLocked(a.session.Status())
	subs := a.subscribersLocked()
	a.mu.Unlock()

	notify(subs, st)
	log.Println("Scan pipeline stopped")
}

// Reset discards the session, clears the error slot and restarts the camera
// and detector.
func (a *App) Reset() error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	a.stop()

	a.mu.Lock()
	a.session.Reset()
	a.lastErr = nil
	a.preview = nil
	a.mu.Unlock()

	log.Println("Scan session reset")
	return a.start()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}
