package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

type recordingSurface struct {
	mu      sync.Mutex
	text    string
	color   string
	visible bool
	shows   int
	hides   int
}

func (s *recordingSurface) ShowToast(text, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.color = color
	s.visible = true
	s.shows++
}

func (s *recordingSurface) HideToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
	s.hides++
}

func (s *recordingSurface) snapshot() (string, string, bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.color, s.visible, s.hides
}

// waitHidden polls because mock timers may run their callback on another goroutine.
func waitHidden(t *testing.T, s *recordingSurface, want bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, _, visible, _ := s.snapshot(); visible == !want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	_, _, visible, _ := s.snapshot()
	t.Fatalf("visible = %v, want %v", visible, !want)
}

func TestNotifier_ShowAndHide(t *testing.T) {
	mock := clock.NewMock()
	surface := &recordingSurface{}
	n := New(surface, mock)

	n.Show("TRACKER RESET", KindSuccess)

	text, color, visible, _ := surface.snapshot()
	if text != "TRACKER RESET" || color != ColorSuccess || !visible {
		t.Fatalf("surface = (%q, %q, %v), want visible success toast", text, color, visible)
	}

	mock.Add(HideDelay - time.Millisecond)
	if _, _, visible, _ := surface.snapshot(); !visible {
		t.Fatal("toast hidden before 3000ms")
	}

	mock.Add(time.Millisecond)
	waitHidden(t, surface, true)

	if _, ok := n.Current(); ok {
		t.Error("Current() reports visible after hide")
	}
}

func TestNotifier_Colors(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSuccess, ColorSuccess},
		{"", ColorSuccess},
		{KindError, ColorError},
		{KindWarning, ColorError},
		{Kind("info"), ColorError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			surface := &recordingSurface{}
			n := New(surface, clock.NewMock())
			n.Show("x", tt.kind)
			if _, color, _, _ := surface.snapshot(); color != tt.want {
				t.Errorf("color = %s, want %s", color, tt.want)
			}
		})
	}
}

func TestNotifier_SecondToastRestartsCountdown(t *testing.T) {
	mock := clock.NewMock()
	surface := &recordingSurface{}
	n := New(surface, mock)

	n.Show("first", KindSuccess)
	mock.Add(2000 * time.Millisecond)
	n.Show("second", KindError)

	// The first toast's deadline passes; the second must stay up.
	mock.Add(1500 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	text, color, visible, hides := surface.snapshot()
	if !visible {
		t.Fatal("second toast hidden by the first toast's timer")
	}
	if text != "second" || color != ColorError {
		t.Errorf("surface = (%q, %q), want second error toast", text, color)
	}
	if hides != 0 {
		t.Errorf("hides = %d, want 0", hides)
	}

	// 3000ms after the second Show it goes away.
	mock.Add(1500 * time.Millisecond)
	waitHidden(t, surface, true)

	if _, _, _, hides := surface.snapshot(); hides != 1 {
		t.Errorf("hides = %d, want 1", hides)
	}
}

func TestNotifier_NilSurface(t *testing.T) {
	n := New(nil, clock.NewMock())
	n.Show("ignored", KindSuccess)

	if _, ok := n.Current(); ok {
		t.Error("toast reported visible without a surface")
	}
}

func TestNotifier_Close(t *testing.T) {
	mock := clock.NewMock()
	surface := &recordingSurface{}
	n := New(surface, mock)

	n.Show("pending", KindSuccess)
	n.Close()
	mock.Add(HideDelay)
	time.Sleep(10 * time.Millisecond)

	if _, _, _, hides := surface.snapshot(); hides != 0 {
		t.Errorf("hides = %d after Close, want 0", hides)
	}
}
