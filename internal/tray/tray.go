// Package tray provides a system tray menu for the ArmaScan hand scanner.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/armascan/internal/scan"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(scanning bool)
	onReset  func()
	onOpen   func()
	onQuit   func()
	scanning bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuRequired *systray.MenuItem
	menuPrompt   *systray.MenuItem
}

// New creates a new Tray instance with scanning stopped.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback invoked when scanning is started or stopped
// from the menu.
func (t *Tray) OnToggle(fn func(scanning bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnReset sets the callback invoked when the reset menu item is clicked.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnOpen sets the callback invoked when the open scanner menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, unblocking Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("ArmaScan")
	systray.SetTooltip("ArmaScan Hand Scanner")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.scanning), "Start or stop the camera")
	menuReset := systray.AddMenuItem("Reset Scan", "Discard progress and start over")
	systray.AddSeparator()

	t.menuRequired = systray.AddMenuItem(RequiredTitle(scan.Left), "Hand the scanner needs next")
	t.menuRequired.Disable()
	t.menuPrompt = systray.AddMenuItem("", "Scanner guidance")
	t.menuPrompt.Disable()
	t.menuPrompt.Hide()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Scanner...", "Open the scanner in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit ArmaScan")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				t.call(func() func() { return t.onReset })
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.RLock()
	scanning := !t.scanning
	callback := t.onToggle
	t.mu.RUnlock()

	// The menu follows the published status rather than the click, so a
	// camera that fails to open leaves it on "Start Scanning".
	if callback != nil {
		callback(scanning)
	}
}

// call invokes the callback picked under the lock, outside the lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetStatus updates the menu from a scan status snapshot. It is safe to
// call before Run and from any goroutine.
func (t *Tray) SetStatus(st scan.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scanning = st.Running

	if t.menuToggle == nil {
		return
	}
	t.menuToggle.SetTitle(toggleTitle(st.Running))
	t.menuRequired.SetTitle(RequiredTitle(st.RequiredHand))

	if msg := menuPrompt(st); msg != "" {
		t.menuPrompt.SetTitle(msg)
		t.menuPrompt.Show()
	} else {
		t.menuPrompt.Hide()
	}
}

// IsScanning reports whether the last status seen had the camera running.
func (t *Tray) IsScanning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scanning
}

func toggleTitle(scanning bool) string {
	if scanning {
		return "● Scanning"
	}
	return "○ Start Scanning"
}

// RequiredTitle is the menu label for the hand the scanner needs next.
func RequiredTitle(h scan.Hand) string {
	if h == scan.NoHand {
		return "Scan complete"
	}
	return fmt.Sprintf("Need: %s hand", h)
}

func menuPrompt(st scan.Status) string {
	if st.Error != "" {
		return st.Error
	}
	if st.Running && !st.Done {
		return st.Prompt
	}
	return ""
}
