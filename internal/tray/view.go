package tray

import (
	"github.com/pkg/browser"

	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/notify"
	"github.com/ayusman/visionpanel/internal/panel"
)

// A menu has no viewport; the configured width stands in for one.
func (t *Tray) ViewportWidth() int {
	return t.cfg.ViewportWidth
}

func (t *Tray) StreamSource() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.streamSrc
}

func (t *Tray) SetStreamSource(src string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.streamSrc = src
}

// Colors have no menu rendering and are dropped.
func (t *Tray) SetStreamButton(label, _ string) {
	t.menuStream.SetTitle(label)
}

func (t *Tray) SetHapticsButton(label, _ string) {
	t.menuHaptics.SetTitle(label)
}

func (t *Tray) SetRatioLabel(r catalog.Ratio) {
	t.menuRatio.SetTitle("📐 RATIO: " + string(r))
}

// SetResolutionOptions shows the submenu items offered for the ratio and hides the rest.
func (t *Tray) SetResolutionOptions(opts []catalog.Option) {
	offered := make(map[string]string, len(opts))
	for _, o := range opts {
		offered[o.Value] = o.Label
	}
	for label, item := range t.resItems {
		if title, ok := offered[label]; ok {
			item.SetTitle(title)
			item.Show()
		} else {
			item.Hide()
		}
	}
}

func (t *Tray) SetLatencyButton(label string) {
	t.menuLatency.SetTitle(label)
}

func (t *Tray) SetAccelStatus(text, _ string) {
	t.menuAccel.SetTitle("Accel: " + text)
}

func (t *Tray) SetPerformance(fps, _ string) {
	t.menuFPS.SetTitle("FPS: " + fps)
}

func (t *Tray) IsFullscreen() bool {
	return false
}

// ShowToast writes the message into the status item.
func (t *Tray) ShowToast(text, _ string) {
	t.menuStatus.SetTitle(text)
}

func (t *Tray) HideToast() {
	t.menuStatus.SetTitle("Ready")
}

// Navigate opens url in the default browser.
func (t *Tray) Navigate(url string) {
	if err := browser.OpenURL(url); err != nil {
		logging.Errorf("failed to open %s: %v", url, err)
	}
}

var (
	_ panel.View      = (*Tray)(nil)
	_ panel.Navigator = (*Tray)(nil)
	_ notify.Surface  = (*Tray)(nil)
)
