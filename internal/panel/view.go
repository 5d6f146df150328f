package panel

import (
	"time"

	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/notify"
)

// View is the set of element handles the panel drives.
type View interface {
	ViewportWidth() int
	StreamSource() string
	SetStreamSource(src string)
	SetStreamButton(label, color string)
	SetHapticsButton(label, borderColor string)
	SetRatioLabel(r catalog.Ratio)
	SetResolutionOptions(opts []catalog.Option)
	SetLatencyButton(label string)
	SetAccelStatus(text, color string)
	SetPerformance(fps, color string)
	IsFullscreen() bool
}

// Vibrator fires haptic pulses. Devices without vibration pass no Vibrator.
type Vibrator interface {
	Vibrate(d time.Duration)
}

// Fullscreen is the standard fullscreen API of the video container.
type Fullscreen interface {
	RequestFullscreen() error
	ExitFullscreen() error
}

// PrefixedFullscreen is the vendor-prefixed request used when the standard API is absent.
type PrefixedFullscreen interface {
	WebkitRequestFullscreen() error
}

// Navigator performs a full navigation, such as a file download.
type Navigator interface {
	Navigate(url string)
}

// Toaster shows transient messages. *notify.Notifier implements it.
type Toaster interface {
	Show(text string, kind notify.Kind)
}
