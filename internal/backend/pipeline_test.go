package backend

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"gocv.io/x/gocv"

	"github.com/ayusman/visionpanel/internal/capture"
	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/detector"
	"github.com/ayusman/visionpanel/internal/events"
	"github.com/ayusman/visionpanel/internal/testframes"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) count(typ string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

type pipelineFixture struct {
	p        *Pipeline
	camera   *capture.MockCamera
	detector *detector.MockDetector
	state    *State
	frames   *FrameBuffer
	events   *recordingPublisher
	clock    *clock.Mock
	frame    gocv.Mat
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	frame := testframes.Blank(capture.DefaultSize)
	f := &pipelineFixture{
		camera:   capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		detector: detector.NewMockDetector(),
		state:    NewState(nil),
		frames:   NewFrameBuffer(),
		events:   &recordingPublisher{},
		clock:    clock.NewMock(),
		frame:    frame,
	}
	f.p = NewPipeline(PipelineConfig{
		Camera:   f.camera,
		Detector: f.detector,
		State:    f.state,
		Frames:   f.frames,
		Events:   f.events,
		Clock:    f.clock,
	})
	f.p.applySettings(f.state.Snapshot(), false)
	f.p.prevTime = f.clock.Now()
	f.p.lastStats = f.clock.Now()

	t.Cleanup(func() {
		f.frames.Close()
		f.frame.Close()
	})
	return f
}

// step advances the mock clock by d and processes one frame.
func (f *pipelineFixture) step(d time.Duration) {
	f.clock.Add(d)
	f.p.process(&f.frame)
}

func TestPipeline_PublishesFrames(t *testing.T) {
	f := newPipelineFixture(t)

	f.step(40 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jpeg, _, err := f.frames.Next(ctx, 0)
	if err != nil {
		t.Fatalf("no stream frame published: %v", err)
	}
	if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
		t.Error("stream frame should be JPEG")
	}

	if _, ok, _ := f.frames.EncodeSnapshot(); !ok {
		t.Error("screenshot frame should be available after processing")
	}
}

func TestPipeline_Detection(t *testing.T) {
	f := newPipelineFixture(t)
	f.detector.SetDetections([]detector.Detection{
		{Label: "motion", Score: 0.4, Box: image.Rect(100, 100, 300, 300)},
		{Label: "motion", Score: 0.2, Box: image.Rect(600, 200, 700, 400)},
	})

	f.step(40 * time.Millisecond)

	if f.detector.Calls() != 1 {
		t.Errorf("detector calls = %d, want 1", f.detector.Calls())
	}
	if got := f.events.count(events.TypeDetection); got != 1 {
		t.Fatalf("detection events = %d, want 1", got)
	}
	f.events.mu.Lock()
	count := f.events.events[0].Count
	f.events.mu.Unlock()
	if count != 2 {
		t.Errorf("detection count = %d, want 2", count)
	}
}

func TestPipeline_NoDetectionNoEvent(t *testing.T) {
	f := newPipelineFixture(t)

	f.step(40 * time.Millisecond)

	if got := f.events.count(events.TypeDetection); got != 0 {
		t.Errorf("detection events = %d, want 0", got)
	}
}

func TestPipeline_LowLatencySkipsFrames(t *testing.T) {
	f := newPipelineFixture(t)
	f.state.ToggleLatency()

	for i := 0; i < 6; i++ {
		f.step(40 * time.Millisecond)
	}

	if got := f.detector.Calls(); got != 3 {
		t.Errorf("detector calls in low latency = %d, want 3", got)
	}
}

func TestPipeline_StatsInterval(t *testing.T) {
	f := newPipelineFixture(t)

	for i := 0; i < 10; i++ {
		f.step(50 * time.Millisecond)
	}
	if got := f.events.count(events.TypeStats); got != 0 {
		t.Errorf("stats events before one second = %d, want 0", got)
	}

	for i := 0; i < 10; i++ {
		f.step(50 * time.Millisecond)
	}
	if got := f.events.count(events.TypeStats); got != 1 {
		t.Errorf("stats events after one second = %d, want 1", got)
	}
	if f.p.fps < 19 || f.p.fps > 21 {
		t.Errorf("fps = %.1f, want about 20", f.p.fps)
	}
}

func TestPipeline_AppliesResolutionChange(t *testing.T) {
	f := newPipelineFixture(t)

	f.state.SetResolution("1080p")
	f.step(40 * time.Millisecond)

	resizes := f.camera.Resizes()
	if got := resizes[len(resizes)-1]; got != (catalog.Size{Width: 1920, Height: 1080}) {
		t.Errorf("camera size = %v, want 1920x1080", got)
	}
	if f.detector.Resets() != 1 {
		t.Errorf("detector resets = %d, want 1", f.detector.Resets())
	}
}

func TestPipeline_FallsBackForRatio(t *testing.T) {
	f := newPipelineFixture(t)

	f.state.ToggleRatio()
	f.step(40 * time.Millisecond)

	if got := f.state.Snapshot().Resolution; got != "480p" {
		t.Errorf("resolution after ratio switch = %s, want 480p", got)
	}
	if got := f.camera.Size(); got != (catalog.Size{Width: 640, Height: 480}) {
		t.Errorf("camera size = %v, want 640x480", got)
	}
	if f.p.activeRes != "480p" || f.p.activeRatio != catalog.Ratio4x3 {
		t.Errorf("active = %s %s", f.p.activeRatio, f.p.activeRes)
	}

	// The fallback itself must not trigger another reapply.
	f.step(40 * time.Millisecond)
	if f.detector.Resets() != 1 {
		t.Errorf("detector resets = %d, want 1", f.detector.Resets())
	}
}

func TestPipeline_StartStop(t *testing.T) {
	f := newPipelineFixture(t)

	if err := f.p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !f.camera.IsOpen() {
		t.Error("camera should be open after Start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, _, err := f.frames.Next(ctx, 0); err != nil {
		t.Fatalf("running pipeline published no frame: %v", err)
	}

	f.p.Stop()
	if f.camera.IsOpen() {
		t.Error("camera should be closed after Stop")
	}

	// Second Stop is a no-op.
	f.p.Stop()
}
