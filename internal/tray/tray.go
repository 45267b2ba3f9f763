// Package tray shows the live finger count in the system tray.
package tray

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/getlantern/systray"

	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/render"
)

// Tray is a presenter that mirrors the count into the tray title and
// relays the Quit menu item to the pipeline.
type Tray struct {
	onDashboard func()
	mu          sync.RWMutex
	ready       bool
	running     bool
	closed      bool
	total       int
	breakdown   string
	quit        atomic.Bool

	// Menu items stored for later updates
	menuHands     *systray.MenuItem
	menuDashboard *systray.MenuItem
}

// New creates a new Tray.
func New() *Tray {
	return &Tray{total: -1}
}

// OnDashboard sets the callback for the "Open Dashboard" menu item. The item
// is only shown when a callback is set before Run.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// Run starts the system tray application.
// This function blocks until Close is called.
func (t *Tray) Run() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle(Title(0))
	systray.SetTooltip("Finger counter")

	t.mu.Lock()
	t.menuHands = systray.AddMenuItem("No hands", "Raised fingers per hand")
	t.menuHands.Disable()
	systray.AddSeparator()
	if t.onDashboard != nil {
		t.menuDashboard = systray.AddMenuItem("Open Dashboard...", "Open the live count in a browser")
		systray.AddSeparator()
	}
	menuQuit := systray.AddMenuItem("Quit", "Stop counting and exit")
	t.ready = true
	dashboard := t.menuDashboard
	t.mu.Unlock()

	var dashboardCh chan struct{}
	if dashboard != nil {
		dashboardCh = dashboard.ClickedCh
	}

	go func() {
		for {
			select {
			case <-dashboardCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ready = false
	t.running = false
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit records the request; the pipeline picks it up on its next
// Quit poll and closes the tray while shutting down.
func (t *Tray) handleQuit() {
	t.quit.Store(true)
}

// Present updates the title when the count changes.
func (t *Tray) Present(view *render.View) error {
	breakdown := Breakdown(view.Result)

	t.mu.Lock()
	defer t.mu.Unlock()

	if view.Result.Total == t.total && breakdown == t.breakdown {
		return nil
	}
	t.total = view.Result.Total
	t.breakdown = breakdown

	if !t.ready {
		return nil
	}
	systray.SetTitle(Title(t.total))
	t.menuHands.SetTitle(breakdown)
	return nil
}

// Quit reports whether the Quit menu item was clicked.
func (t *Tray) Quit() bool {
	return t.quit.Load()
}

// Close removes the tray icon and makes Run return. A tray closed before
// Run never shows.
func (t *Tray) Close() error {
	t.mu.Lock()
	t.closed = true
	running := t.running
	t.mu.Unlock()
	if running {
		systray.Quit()
	}
	return nil
}

// Total returns the last count shown, or -1 before the first frame.
func (t *Tray) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// Title formats the tray title for a total.
func Title(total int) string {
	return fmt.Sprintf("✋ %d", total)
}

// Breakdown lists the per-hand counts, e.g. "Hands: 5 + 2".
func Breakdown(result fingers.Result) string {
	if len(result.Hands) == 0 {
		return "No hands"
	}
	parts := make([]string, len(result.Hands))
	for i, h := range result.Hands {
		parts[i] = fmt.Sprint(h.Count)
	}
	return "Hands: " + strings.Join(parts, " + ")
}
