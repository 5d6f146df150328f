package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/visionpanel/internal/catalog"
)

// MockCamera plays back pre-recorded frames for testing.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
	size    catalog.Size
	resizes []catalog.Size
}

func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
		size:   DefaultSize,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, fmt.Errorf("no more frames")
		}
		c.index = 0
	}

	// Clone so callers can close what they get.
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) SetSize(size catalog.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.size = size
	c.resizes = append(c.resizes, size)
}

func (c *MockCamera) Size() catalog.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Resizes returns every size applied through SetSize, oldest first.
func (c *MockCamera) Resizes() []catalog.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.Size, len(c.resizes))
	copy(out, c.resizes)
	return out
}
