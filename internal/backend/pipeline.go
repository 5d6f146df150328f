package backend

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"gocv.io/x/gocv"

	"github.com/ayusman/visionpanel/internal/capture"
	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/detector"
	"github.com/ayusman/visionpanel/internal/events"
	"github.com/ayusman/visionpanel/internal/logging"
)

// StatsInterval is how often a stats event is published.
const StatsInterval = time.Second

var (
	boxColor     = color.RGBA{0, 255, 0, 255}
	overlayColor = color.RGBA{0, 255, 0, 255}
)

// Publisher receives pipeline events. *events.Hub satisfies it.
type Publisher interface {
	Publish(ev events.Event)
}

// PipelineConfig wires a Pipeline.
type PipelineConfig struct {
	Camera   capture.Camera
	Detector detector.Detector
	State    *State
	Frames   *FrameBuffer
	Events   Publisher
	// Clock drives FPS measurement. Nil uses the wall clock.
	Clock clock.Clock
}

// Pipeline reads camera frames, runs detection, annotates and publishes them.
type Pipeline struct {
	cfg    PipelineConfig
	clock  clock.Clock
	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}

	// Owned by the loop goroutine.
	activeRatio catalog.Ratio
	activeRes   string
	activeSize  catalog.Size
	frameCount  int
	prevTime    time.Time
	lastStats   time.Time
	fps         float64
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Pipeline{cfg: cfg, clock: clk}
}

// Start opens the camera and runs the frame loop in a goroutine.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh != nil {
		return nil
	}

	if err := p.cfg.Camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	p.applySettings(p.cfg.State.Snapshot(), false)
	p.prevTime = p.clock.Now()
	p.lastStats = p.prevTime

	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.stopCh, p.done)

	logging.Infof("capture pipeline started at %s %s", p.activeRatio, p.activeRes)
	return nil
}

// Stop halts the loop and closes the camera.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	stopCh, done := p.stopCh, p.done
	p.stopCh, p.done = nil, nil
	p.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	if err := p.cfg.Camera.Close(); err != nil {
		logging.Errorf("error closing camera: %v", err)
	}
	logging.Infof("capture pipeline stopped")
}

func (p *Pipeline) run(stopCh, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		frame, err := p.cfg.Camera.ReadFrame()
		if err != nil {
			logging.Debugf("error reading frame: %v", err)
			select {
			case <-stopCh:
				return
			case <-p.clock.After(100 * time.Millisecond):
			}
			continue
		}

		p.process(frame)
		frame.Close()
	}
}

// applySettings pushes ratio and resolution to the camera. A resolution not
// offered for the ratio falls back to the ratio's first one.
func (p *Pipeline) applySettings(s Settings, resetTracker bool) {
	res, size := catalog.Dimensions(s.Ratio, s.Resolution)
	if res != s.Resolution {
		logging.Infof("resolution %s not offered for %s, using %s", s.Resolution, s.Ratio, res)
		p.cfg.State.adoptFallback(s.Resolution, res)
	}

	p.cfg.Camera.SetSize(size)
	p.activeRatio = s.Ratio
	p.activeRes = res
	p.activeSize = size

	if resetTracker && p.cfg.Detector != nil {
		p.cfg.Detector.Reset()
	}
}

// process handles one camera frame. The caller keeps ownership of frame.
func (p *Pipeline) process(frame *gocv.Mat) {
	s := p.cfg.State.Snapshot()
	if s.Ratio != p.activeRatio || s.Resolution != p.activeRes {
		p.applySettings(s, true)
	}

	img := gocv.NewMat()
	defer img.Close()
	gocv.Flip(*frame, &img, 1)

	p.frameCount++
	if p.cfg.Detector != nil && !(s.LowLatency && p.frameCount%2 != 0) {
		found, err := p.cfg.Detector.Detect(&img)
		if err != nil {
			logging.Errorf("detection error: %v", err)
		}
		for _, d := range found {
			gocv.Rectangle(&img, d.Box, boxColor, 2)
			label := fmt.Sprintf("%s %.2f", d.Label, d.Score)
			gocv.PutText(&img, label, image.Pt(d.Box.Min.X, d.Box.Min.Y-6), gocv.FontHersheySimplex, 0.5, boxColor, 1)
		}
		if len(found) > 0 && p.cfg.Events != nil {
			p.cfg.Events.Publish(events.Detection(len(found)))
		}
	}

	if p.activeSize.Width > 0 && img.Cols() != p.activeSize.Width {
		gocv.Resize(img, &img, image.Pt(p.activeSize.Width, p.activeSize.Height), 0, 0, gocv.InterpolationLinear)
	}

	p.cfg.Frames.SetSnapshot(img)

	now := p.clock.Now()
	if elapsed := now.Sub(p.prevTime).Seconds(); elapsed > 0 {
		p.fps = 1 / elapsed
	}
	p.prevTime = now

	overlay := fmt.Sprintf("FPS: %d | %s %s", int(p.fps), p.activeRatio, p.activeRes)
	gocv.PutText(&img, overlay, image.Pt(20, 40), gocv.FontHersheySimplex, 0.7, overlayColor, 2)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		logging.Errorf("failed to encode frame: %v", err)
	} else {
		p.cfg.Frames.SetJPEG(append([]byte(nil), buf.GetBytes()...))
		buf.Close()
	}

	if p.cfg.Events != nil && now.Sub(p.lastStats) >= StatsInterval {
		p.lastStats = now
		p.cfg.Events.Publish(events.Stats(p.fps))
	}
}
