package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// BlurSize is the Gaussian kernel used to suppress sensor noise.
	BlurSize = 21
	// DiffThreshold is the per-pixel intensity change treated as movement.
	DiffThreshold = 25
	// LabelMotion tags detections produced by MotionDetector.
	LabelMotion = "motion"
)

// MotionDetector reports moving regions by differencing consecutive frames.
// Each changed region larger than MinArea becomes a Detection.
type MotionDetector struct {
	cfg      Config
	prevGray gocv.Mat
	primed   bool
	mu       sync.Mutex
}

// NewMotionDetector creates a MotionDetector. Non-positive config values fall back to defaults.
func NewMotionDetector(cfg Config) *MotionDetector {
	def := DefaultConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.MinArea <= 0 {
		cfg.MinArea = def.MinArea
	}
	return &MotionDetector{
		cfg:      cfg,
		prevGray: gocv.NewMat(),
	}
}

// Detect compares frame against the previous one. The first frame after
// construction or Reset only primes the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return nil, nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: BlurSize, Y: BlurSize}, 0, 0, gocv.BorderDefault)

	// A size change (new resolution) invalidates the baseline.
	if !m.primed || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.primed = true
		return nil, nil
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	blurred.CopyTo(&m.prevGray)

	total := thresh.Rows() * thresh.Cols()
	if total == 0 {
		return nil, nil
	}
	changed := float64(gocv.CountNonZero(thresh)) / float64(total) * 100.0
	if changed <= m.cfg.Threshold {
		return nil, nil
	}

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var found []Detection
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		if area < m.cfg.MinArea {
			continue
		}
		found = append(found, Detection{
			Label: LabelMotion,
			Score: area / float64(total),
			Box:   gocv.BoundingRect(c),
		})
	}

	// Diffuse change with no solid region still counts, as one frame-wide detection.
	if len(found) == 0 {
		found = append(found, Detection{
			Label: LabelMotion,
			Score: changed / 100.0,
			Box:   image.Rect(0, 0, thresh.Cols(), thresh.Rows()),
		})
	}

	return found, nil
}

// Reset forgets the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.primed = false
}

// Close releases the baseline frame.
func (m *MotionDetector) Close() error {
	m.Reset()
	return nil
}
