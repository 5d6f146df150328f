package panel

import (
	"context"
	"strings"

	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/notify"
)

// Each command issues one request. Transport and parse failures become a single
// error toast; a response whose status is not "success" is shown as nothing.

// SetResolution asks the backend for a new capture resolution.
func (p *Panel) SetResolution(ctx context.Context, label string) {
	env, err := p.commands.ChangeResolution(ctx, label)
	if err != nil {
		logging.Errorf("change resolution to %s: %v", label, err)
		p.toast.Show("❌ FAILED TO CHANGE RESOLUTION", notify.KindError)
		return
	}
	if !env.OK() {
		logging.Infof("change resolution to %s rejected: status=%q message=%q", label, env.Status, env.Message)
		return
	}
	p.toast.Show("🎥 QUALITY SET TO "+strings.ToUpper(label), notify.KindSuccess)
}

// ToggleAspectRatio flips the backend ratio and adopts whatever ratio it reports.
func (p *Panel) ToggleAspectRatio(ctx context.Context) {
	env, err := p.commands.ToggleAspectRatio(ctx)
	if err != nil {
		logging.Errorf("toggle aspect ratio: %v", err)
		p.toast.Show("❌ RATIO SWITCH FAILED", notify.KindError)
		return
	}
	if !env.OK() {
		logging.Infof("toggle aspect ratio rejected: status=%q message=%q", env.Status, env.Message)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Ratio = catalog.Ratio(env.Ratio)
	p.renderRatio()
	p.toast.Show("📐 RATIO CHANGED: "+env.Ratio, notify.KindSuccess)
}

// ResetTracker clears the backend tracker.
func (p *Panel) ResetTracker(ctx context.Context) {
	env, err := p.commands.ResetTracker(ctx)
	if err != nil {
		logging.Errorf("reset tracker: %v", err)
		p.toast.Show("❌ ERROR RESETTING TRACKER", notify.KindError)
		return
	}
	if !env.OK() {
		logging.Infof("reset tracker rejected: status=%q message=%q", env.Status, env.Message)
		return
	}
	p.toast.Show("🔄 TRACKER RESET SUCCESSFULLY", notify.KindSuccess)
}

// ToggleLatency flips low-latency mode and shows the mode the backend reports.
func (p *Panel) ToggleLatency(ctx context.Context) {
	env, err := p.commands.ToggleLatency(ctx)
	if err != nil {
		logging.Errorf("toggle latency: %v", err)
		p.toast.Show("❌ LATENCY TOGGLE FAILED", notify.KindError)
		return
	}

	mode := onOff(env.Mode)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.SetLatencyButton("⚡ LOW LATENCY: " + mode)
	p.toast.Show("⚡ LATENCY MODE: "+mode, notify.KindSuccess)
}

// TakeScreenshot navigates to the capture download and confirms right away.
// Failures of the navigation itself are surfaced by the viewer.
func (p *Panel) TakeScreenshot() {
	if p.navigator != nil {
		p.navigator.Navigate(p.screenshotURL)
	}
	p.toast.Show("📸 SNAPSHOT CAPTURED", notify.KindSuccess)
}
