package panel

import (
	"context"
	"math"
)

// SwipeThreshold is the horizontal travel, in logical pixels, a swipe must exceed.
const SwipeThreshold = 50

// TouchStart records where a touch on the video area began.
func (p *Panel) TouchStart(screenX float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touchStartX = screenX
}

// IsSwipe reports whether a touch ending at screenX travelled more than
// SwipeThreshold from where it started, in either direction.
func (p *Panel) IsSwipe(screenX float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return math.Abs(screenX-p.touchStartX) > SwipeThreshold
}

// TouchEnd completes a touch, toggling the aspect ratio on a swipe. It reports
// whether it did.
func (p *Panel) TouchEnd(ctx context.Context, screenX float64) bool {
	if !p.IsSwipe(screenX) {
		return false
	}
	p.ToggleAspectRatio(ctx)
	return true
}
