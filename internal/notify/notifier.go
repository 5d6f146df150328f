// Package notify renders transient toast messages.
package notify

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Kind selects the toast style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// HideDelay is how long a toast stays visible.
const HideDelay = 3000 * time.Millisecond

const (
	ColorSuccess = "#28a745"
	ColorError   = "#dc3545"
)

// Surface is the single on-screen element a Notifier draws into.
type Surface interface {
	ShowToast(text, color string)
	HideToast()
}

// Message is the toast currently owned by a Notifier.
type Message struct {
	Text string
	Kind Kind
}

// Color returns the background color for a kind. Anything but success renders as an error.
func (k Kind) Color() string {
	if k == KindSuccess {
		return ColorSuccess
	}
	return ColorError
}

// Notifier shows one toast at a time. A new toast replaces the visible one and
// restarts the hide countdown.
type Notifier struct {
	surface Surface
	clock   clock.Clock

	mu      sync.Mutex
	timer   *clock.Timer
	gen     uint64
	current Message
	visible bool
}

// New creates a Notifier drawing into s. A nil clock uses wall time.
func New(s Surface, c clock.Clock) *Notifier {
	if c == nil {
		c = clock.New()
	}
	return &Notifier{surface: s, clock: c}
}

// Show displays text with the given kind and schedules it to hide after HideDelay.
func (n *Notifier) Show(text string, kind Kind) {
	if n.surface == nil {
		return
	}
	if kind == "" {
		kind = KindSuccess
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen

	n.current = Message{Text: text, Kind: kind}
	n.visible = true
	n.surface.ShowToast(text, kind.Color())

	n.timer = n.clock.AfterFunc(HideDelay, func() {
		n.hide(gen)
	})
}

// hide clears the toast unless a newer Show has superseded the timer.
func (n *Notifier) hide(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen || !n.visible {
		return
	}
	n.visible = false
	n.timer = nil
	n.surface.HideToast()
}

// Current returns the last toast and whether it is still visible.
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// Close stops any pending hide timer.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
}
