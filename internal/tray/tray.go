// Package tray provides a system tray control panel for the camera stream.
package tray

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/getlantern/systray"

	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/command"
	"github.com/ayusman/visionpanel/internal/events"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/notify"
	"github.com/ayusman/visionpanel/internal/panel"
)

// eventRetry is the pause between event feed reconnects.
const eventRetry = 5 * time.Second

// Config holds tray settings.
type Config struct {
	Commands *command.Client
	// ViewportWidth picks the initial ratio, as a browser viewport would.
	ViewportWidth int
	// PanelURL is opened by "Open Panel". Empty hides the item.
	PanelURL string
	Clock    clock.Clock
}

// Tray is a menu-bar control panel. It acts as the panel's View, its toast
// Surface and its Navigator.
type Tray struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
	onQuit func()

	mu        sync.RWMutex
	streamSrc string
	panel     *panel.Panel
	notifier  *notify.Notifier

	// Menu items stored for later updates
	menuStatus  *systray.MenuItem
	menuStream  *systray.MenuItem
	menuHaptics *systray.MenuItem
	menuRatio   *systray.MenuItem
	menuRes     *systray.MenuItem
	menuLatency *systray.MenuItem
	menuAccel   *systray.MenuItem
	menuFPS     *systray.MenuItem
	resItems    map[string]*systray.MenuItem
}

// New creates a new Tray.
func New(cfg Config) *Tray {
	ctx, cancel := context.WithCancel(context.Background())
	return &Tray{
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		streamSrc: cfg.Commands.StreamURL(),
		resItems:  make(map[string]*systray.MenuItem),
	}
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("VisionPanel")
	systray.SetTooltip("Camera stream control panel")

	t.menuStatus = systray.AddMenuItem("Ready", "Last notification")
	t.menuStatus.Disable()
	t.menuAccel = systray.AddMenuItem("Accel: -", "Hardware acceleration")
	t.menuAccel.Disable()
	t.menuFPS = systray.AddMenuItem("FPS: -", "Backend frame rate")
	t.menuFPS.Disable()
	systray.AddSeparator()

	t.menuStream = systray.AddMenuItem("PAUSE STREAM", "Pause or resume the stream")
	t.menuHaptics = systray.AddMenuItem("📳 HAPTICS: OFF", "Toggle detection feedback")
	t.menuRatio = systray.AddMenuItem("📐 RATIO: 16:9", "Switch aspect ratio")
	t.menuRes = systray.AddMenuItem("Resolution", "Capture resolution")
	for _, label := range catalog.AllResolutions() {
		item := t.menuRes.AddSubMenuItem(catalog.OptionLabel(label), "Set resolution to "+label)
		item.Hide()
		t.resItems[label] = item
	}
	t.menuLatency = systray.AddMenuItem("⚡ LOW LATENCY: OFF", "Toggle low latency mode")
	menuReset := systray.AddMenuItem("🔄 Reset Tracker", "Reset detector tracking")
	menuShot := systray.AddMenuItem("📸 Snapshot", "Download a screenshot")
	systray.AddSeparator()

	var menuPanel *systray.MenuItem
	if t.cfg.PanelURL != "" {
		menuPanel = systray.AddMenuItem("Open Panel...", "Open the panel in a browser")
		systray.AddSeparator()
	}
	menuQuit := systray.AddMenuItem("Quit", "Quit VisionPanel")

	notifier := notify.New(t, t.cfg.Clock)
	p := panel.New(panel.Config{
		View:      t,
		Commands:  t.cfg.Commands,
		Notifier:  notifier,
		Navigator: t,
	})

	t.mu.Lock()
	t.panel = p
	t.notifier = notifier
	t.mu.Unlock()

	p.Start()

	t.onClick(t.menuStream, p.ToggleStream)
	t.onClick(t.menuHaptics, p.ToggleHaptics)
	t.onClick(t.menuRatio, func() { p.ToggleAspectRatio(t.ctx) })
	t.onClick(t.menuLatency, func() { p.ToggleLatency(t.ctx) })
	t.onClick(menuReset, func() { p.ResetTracker(t.ctx) })
	t.onClick(menuShot, p.TakeScreenshot)
	for label, item := range t.resItems {
		t.onClick(item, func() { p.SetResolution(t.ctx, label) })
	}
	if menuPanel != nil {
		t.onClick(menuPanel, func() { t.Navigate(t.cfg.PanelURL) })
	}

	go t.followEvents(p)

	go func() {
		<-menuQuit.ClickedCh
		t.handleQuit()
	}()
}

// onClick runs fn for every click on item until the tray exits.
func (t *Tray) onClick(item *systray.MenuItem, fn func()) {
	go func() {
		for {
			select {
			case <-t.ctx.Done():
				return
			case <-item.ClickedCh:
				fn()
			}
		}
	}()
}

// followEvents keeps the panel subscribed to the backend event feed.
func (t *Tray) followEvents(p *panel.Panel) {
	bridge := eventBridge{p}
	for {
		err := events.Subscribe(t.ctx, t.cfg.Commands.EventsURL(), bridge)
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.Debugf("tray event feed: %v", err)

		select {
		case <-t.ctx.Done():
			return
		case <-time.After(eventRetry):
		}
	}
}

func (t *Tray) onExit() {
	t.cancel()

	t.mu.RLock()
	n := t.notifier
	t.mu.RUnlock()
	if n != nil {
		n.Close()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

type eventBridge struct {
	p *panel.Panel
}

func (b eventBridge) OnDetection()        { b.p.TriggerDetectionHaptic() }
func (b eventBridge) OnStats(fps float64) { b.p.UpdatePerformanceStats(fps) }
