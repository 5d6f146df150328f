// Package panel implements the stream control panel: local UI state, haptics,
// fullscreen, swipe gestures and the remote commands sent to the backend.
package panel

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/command"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/notify"
)

// PulseDuration is the length of every haptic pulse.
const PulseDuration = 50 * time.Millisecond

// Fixed hardware acceleration display. Nothing is probed.
const (
	DefaultAccelStatus = "CUDA (NVIDIA GPU)"
	AccelColor         = "#00ff00"
)

const (
	colorGreen  = "#28a745"
	colorBlue   = "#007bff"
	colorWhite  = "#fff"
	colorYellow = "#ffc107"
)

// smoothFPS is the frame rate above which the performance readout is green.
const smoothFPS = 25

// State is a snapshot of the panel's session state.
type State struct {
	Streaming      bool
	HapticsEnabled bool
	Ratio          catalog.Ratio
}

// Config wires a Panel to its view and collaborators. Optional capabilities are nil when absent.
type Config struct {
	View               View
	Commands           *command.Client
	Notifier           Toaster
	Vibrator           Vibrator
	Fullscreen         Fullscreen
	PrefixedFullscreen PrefixedFullscreen
	Navigator          Navigator
	AccelStatus        string

	// ScreenshotURL is where the Navigator is sent for a capture download.
	// Empty means the command client's absolute screenshot address.
	ScreenshotURL string
}

// Panel binds user input to local state and backend commands.
type Panel struct {
	view      View
	commands  *command.Client
	toast     Toaster
	vibrator  Vibrator
	fs        Fullscreen
	fsPrefix  PrefixedFullscreen
	navigator Navigator
	accel     string

	streamURL     string
	screenshotURL string

	mu          sync.Mutex
	state       State
	touchStartX float64
}

// New creates a Panel. The view's current stream source is remembered so a
// paused stream can be resumed.
func New(cfg Config) *Panel {
	accel := cfg.AccelStatus
	if accel == "" {
		accel = DefaultAccelStatus
	}
	toast := cfg.Notifier
	if toast == nil {
		toast = discardToaster{}
	}
	shot := cfg.ScreenshotURL
	if shot == "" && cfg.Commands != nil {
		shot = cfg.Commands.ScreenshotURL()
	}

	return &Panel{
		view:      cfg.View,
		commands:  cfg.Commands,
		toast:     toast,
		vibrator:  cfg.Vibrator,
		fs:        cfg.Fullscreen,
		fsPrefix:  cfg.PrefixedFullscreen,
		navigator: cfg.Navigator,
		accel:     accel,
		streamURL: cfg.View.StreamSource(),

		screenshotURL: shot,
		state: State{
			Streaming: true,
			Ratio:     catalog.Ratio16x9,
		},
	}
}

// Start applies the initial layout: the ratio chosen from the viewport width, its
// resolution options and the acceleration status.
func (p *Panel) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Ratio = catalog.DefaultRatio(p.view.ViewportWidth())
	p.renderRatio()
	p.view.SetAccelStatus(p.accel, AccelColor)
}

// State returns a snapshot of the current state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// renderRatio rebuilds the dropdown before touching the ratio label. Callers hold p.mu.
func (p *Panel) renderRatio() {
	p.view.SetResolutionOptions(catalog.Options(p.state.Ratio))
	p.view.SetRatioLabel(p.state.Ratio)
}

// ToggleStream pauses or resumes the stream locally.
func (p *Panel) ToggleStream() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Streaming {
		p.view.SetStreamSource("")
		p.view.SetStreamButton("RESUME STREAM", colorGreen)
		p.toast.Show("⏸️ STREAM PAUSED", notify.KindWarning)
	} else {
		p.view.SetStreamSource(p.streamURL)
		p.view.SetStreamButton("PAUSE STREAM", colorBlue)
		p.toast.Show("▶️ STREAM RESUMED", notify.KindSuccess)
	}
	p.state.Streaming = !p.state.Streaming
}

// ToggleHaptics enables or disables detection pulses. Enabling fires a test pulse.
func (p *Panel) ToggleHaptics() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.HapticsEnabled = !p.state.HapticsEnabled
	enabled := p.state.HapticsEnabled

	if enabled && p.vibrator != nil {
		p.vibrator.Vibrate(PulseDuration)
	}

	border := colorWhite
	if enabled {
		border = colorGreen
	}
	p.view.SetHapticsButton("📳 HAPTICS: "+onOff(enabled), border)

	status := "DISABLED"
	if enabled {
		status = "ENABLED"
	}
	p.toast.Show("HAPTIC FEEDBACK: "+status, notify.KindSuccess)
}

// TriggerDetectionHaptic is called once per detection event. It pulses only when
// haptics are enabled and never shows anything.
func (p *Panel) TriggerDetectionHaptic() {
	p.mu.Lock()
	enabled := p.state.HapticsEnabled
	p.mu.Unlock()

	if enabled && p.vibrator != nil {
		p.vibrator.Vibrate(PulseDuration)
	}
}

// ToggleFullscreen enters or leaves fullscreen on the video container.
func (p *Panel) ToggleFullscreen() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.view.IsFullscreen() {
		var err error
		switch {
		case p.fs != nil:
			err = p.fs.RequestFullscreen()
		case p.fsPrefix != nil:
			err = p.fsPrefix.WebkitRequestFullscreen()
		}
		if err != nil {
			logging.Errorf("fullscreen request failed: %v", err)
		}
		p.toast.Show("🖥️ ENTERED FULLSCREEN", notify.KindSuccess)
		return
	}

	if p.fs != nil {
		if err := p.fs.ExitFullscreen(); err != nil {
			logging.Errorf("fullscreen exit failed: %v", err)
		}
	}
	p.toast.Show("🖥️ EXITED FULLSCREEN", notify.KindSuccess)
}

// UpdatePerformanceStats shows the backend frame rate.
func (p *Panel) UpdatePerformanceStats(fps float64) {
	color := colorYellow
	if fps > smoothFPS {
		color = colorGreen
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.SetPerformance(strconv.Itoa(int(fps)), color)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

type discardToaster struct{}

func (discardToaster) Show(string, notify.Kind) {}

var _ Toaster = (*notify.Notifier)(nil)

// String implements fmt.Stringer for debug logging.
func (s State) String() string {
	return fmt.Sprintf("streaming=%t haptics=%t ratio=%s", s.Streaming, s.HapticsEnabled, s.Ratio)
}
