package app

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/armascan/internal/capture"
	"github.com/ayusman/armascan/internal/detector"
	"github.com/ayusman/armascan/internal/scan"
	"github.com/ayusman/armascan/internal/sizing"
	"github.com/ayusman/armascan/internal/store"
)

func fastScanConfig() scan.Config {
	cfg := scan.DefaultConfig()
	cfg.Dwell = 150 * time.Millisecond
	cfg.Settle = 100 * time.Millisecond
	return cfg
}

type testRig struct {
	app      *App
	camera   *capture.MockCamera
	detector *detector.MockDetector
}

func newTestRig(t *testing.T, st *store.Store, scanCfg scan.Config) *testRig {
	t.Helper()

	cam := capture.NewBlankMockCamera(640, 480)
	det := detector.NewMockDetector()

	cfg := DefaultConfig()
	cfg.Store = st
	cfg.Camera = cam
	cfg.Capture.FPS = 50
	cfg.NewDetector = func(detector.Config) (detector.Detector, error) { return det, nil }
	cfg.Scan = scanCfg
	cfg.Mirrored = false

	a := New(cfg)
	t.Cleanup(a.Stop)
	return &testRig{app: a, camera: cam, detector: det}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestApp_Start_DetectorInitError(t *testing.T) {
	cam := capture.NewBlankMockCamera(640, 480)
	a := New(Config{
		Camera: cam,
		NewDetector: func(detector.Config) (detector.Detector, error) {
			return nil, errors.New("python not found")
		},
	})

	err := a.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDetectorInit))
	assert.False(t, a.IsRunning())
	assert.False(t, cam.IsOpen(), "camera should not be opened when tracking fails")

	st := a.Status()
	assert.False(t, st.Running)
	assert.Contains(t, st.Error, "hand tracking")
	assert.True(t, errors.Is(a.Err(), ErrDetectorInit))
}

func TestApp_Start_DeviceError(t *testing.T) {
	rig := newTestRig(t, nil, fastScanConfig())
	rig.camera.SetOpenError(errors.New("permission denied"))

	err := rig.app.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDevice))
	assert.True(t, rig.detector.Closed(), "detector should be released when the camera fails")
	assert.Contains(t, rig.app.Status().Error, "camera")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrDevice, "Failed to initialize camera"},
		{ErrDetectorInit, "Failed to initialize hand tracking"},
		{errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		got := UserMessage(tt.err)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("UserMessage(%v) = %q, want prefix %q", tt.err, got, tt.want)
		}
	}
}

func TestApp_SelectSize(t *testing.T) {
	a := New(Config{Camera: capture.NewBlankMockCamera(640, 480)})

	require.NoError(t, a.SelectSize("l"))
	assert.Equal(t, "L", a.Status().GloveSize)

	err := a.SelectSize("XXS")
	assert.True(t, errors.Is(err, sizing.ErrUnknownSize))
	assert.Equal(t, "L", a.Status().GloveSize)
}

func TestApp_SelectSport(t *testing.T) {
	a := New(Config{Camera: capture.NewBlankMockCamera(640, 480)})

	require.NoError(t, a.SelectSport("baseball"))
	assert.Equal(t, sizing.Baseball, a.Status().Sport)
	assert.True(t, errors.Is(a.SelectSport("chess"), sizing.ErrUnknownSport))
}

func TestApp_SettingsPersist(t *testing.T) {
	st := newTestStore(t)

	first := newTestRig(t, st, fastScanConfig()).app
	require.NoError(t, first.SelectSize("2XL"))
	require.NoError(t, first.SelectSport("golf"))
	require.NoError(t, first.SetMirrored(true))

	second := newTestRig(t, st, fastScanConfig()).app
	require.Equal(t, "", second.Status().GloveSize)
	require.NoError(t, second.RestoreSettings())

	status := second.Status()
	assert.Equal(t, "2XL", status.GloveSize)
	assert.Equal(t, sizing.Golf, status.Sport)
	assert.True(t, status.Mirrored)
}

func TestApp_SelectSize_FromStore(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Sizes().Upsert(&sizing.GloveSize{
		Key:         "YL",
		Name:        "Youth Large",
		PalmWidthCm: 5.9,
		ModelFile:   "arma_youth_large.stl",
	}))

	a := newTestRig(t, st, fastScanConfig()).app
	require.NoError(t, a.SelectSize("yl"))
	assert.Equal(t, "YL", a.Status().GloveSize)
	assert.True(t, errors.Is(a.SelectSize("nope"), sizing.ErrUnknownSize))
}

func TestApp_Pipeline_FullScan(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rig := newTestRig(t, nil, fastScanConfig())
	require.NoError(t, rig.app.SelectSize("M"))
	rig.detector.SetHands([]detector.HandLandmarks{detector.LeftOpenPalmLandmarks()})

	var mu sync.Mutex
	var published []scan.Status
	unsubscribe := rig.app.Subscribe(func(st scan.Status) {
		mu.Lock()
		published = append(published, st)
		mu.Unlock()
	})
	defer unsubscribe()

	require.NoError(t, rig.app.Start())
	assert.True(t, rig.app.IsRunning())
	assert.True(t, rig.camera.IsOpen())

	require.Eventually(t, func() bool {
		return rig.app.Status().LeftCount == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, scan.Right, rig.app.Status().RequiredHand)

	rig.detector.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	require.Eventually(t, func() bool {
		return rig.app.Status().Done
	}, 5*time.Second, 10*time.Millisecond)

	st := rig.app.Status()
	assert.True(t, st.Calibrated)
	require.NotNil(t, st.Measurements)
	assert.InDelta(t, 6.46, st.Measurements.PalmWidth, 1e-6)
	assert.NotEmpty(t, rig.app.LatestFrame())
	assert.Greater(t, rig.detector.Calls(), 0)

	mu.Lock()
	assert.NotEmpty(t, published)
	mu.Unlock()

	rig.app.Stop()
	assert.False(t, rig.app.IsRunning())
	assert.False(t, rig.camera.IsOpen())
	assert.True(t, rig.detector.Closed())
}

func TestApp_Stop_CancelsSettlingCompletion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := fastScanConfig()
	cfg.Settle = time.Hour
	rig := newTestRig(t, nil, cfg)
	rig.detector.SetHands([]detector.HandLandmarks{detector.LeftOpenPalmLandmarks()})

	require.NoError(t, rig.app.Start())
	require.Eventually(t, func() bool {
		return rig.app.Status().Processing
	}, 5*time.Second, 10*time.Millisecond)

	rig.app.Stop()

	st := rig.app.Status()
	assert.False(t, st.Processing)
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.LeftCount)
}

func TestApp_Reset_ClearsErrorAndRestarts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rig := newTestRig(t, nil, fastScanConfig())
	rig.camera.SetOpenError(errors.New("busy"))
	require.Error(t, rig.app.Start())
	require.NotEmpty(t, rig.app.Status().Error)
	oldID := rig.app.Status().SessionID

	rig.camera.SetOpenError(nil)
	require.NoError(t, rig.app.Reset())

	st := rig.app.Status()
	assert.Empty(t, st.Error)
	assert.Nil(t, rig.app.Err())
	assert.True(t, st.Running)
	assert.NotEqual(t, oldID, st.SessionID)
	assert.Equal(t, 1, rig.camera.Openings())
}

func TestApp_NoHandKeepsWaiting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rig := newTestRig(t, nil, fastScanConfig())
	require.NoError(t, rig.app.Start())

	require.Eventually(t, func() bool {
		return rig.detector.Calls() >= 10
	}, 5*time.Second, 10*time.Millisecond)

	st := rig.app.Status()
	assert.False(t, st.HandDetected)
	assert.Equal(t, scan.Left, st.RequiredHand)
	assert.Equal(t, "Show your left hand", st.Prompt)
}
