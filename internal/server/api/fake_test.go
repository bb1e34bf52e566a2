package api

import (
	"errors"
	"sync"

	"github.com/ayusman/armascan/internal/scan"
	"github.com/ayusman/armascan/internal/sizing"
)

// fakeScanner records commands and serves a canned status.
type fakeScanner struct {
	mu       sync.Mutex
	status   scan.Status
	startErr error
	starts   int
	stops    int
	resets   int
}

func (f *fakeScanner) Status() scan.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeScanner) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		f.status.Error = "Failed to initialize camera. Please check permissions and try again."
		return f.startErr
	}
	f.status.Running = true
	return nil
}

func (f *fakeScanner) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.status.Running = false
}

func (f *fakeScanner) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	f.status = scan.Status{SessionID: "fresh", RequiredHand: scan.Left, Running: true}
	return nil
}

func (f *fakeScanner) SelectSize(key string) error {
	size, err := sizing.Lookup(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status.GloveSize = size.Key
	return nil
}

func (f *fakeScanner) SelectSport(name string) error {
	sport, err := sizing.ParseSport(name)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status.Sport = sport
	return nil
}

func (f *fakeScanner) SetMirrored(mirrored bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status.Mirrored = mirrored
	return nil
}

var errCamera = errors.New("camera unavailable")
