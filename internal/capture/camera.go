// Package capture reads frames from a camera device using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/visionpanel/internal/catalog"
)

// DefaultSize is the capture size before any resolution is applied (720p).
var DefaultSize = catalog.Size{Width: 1280, Height: 720}

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEmptyFrame is returned when the device produced no image data.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Camera is a frame source whose capture size can change while open.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetSize(size catalog.Size)
	Size() catalog.Size
	IsOpen() bool
}

type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	size     catalog.Size
}

// NewCamera creates a Camera for the given device ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{
		deviceID: deviceID,
		size:     DefaultSize,
	}
}

// Open opens the device and applies the current capture size.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	c.capture = capture
	c.running = true
	c.applySize()

	return nil
}

// applySize pushes the capture size to the device. Callers hold c.mu.
func (c *cameraImpl) applySize() {
	if c.capture == nil {
		return
	}
	c.capture.Set(gocv.VideoCaptureFrameWidth, float64(c.size.Width))
	c.capture.Set(gocv.VideoCaptureFrameHeight, float64(c.size.Height))
}

// Close releases the device.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame. The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrEmptyFrame
	}

	return &mat, nil
}

// SetSize changes the requested capture size. Non-positive sizes are ignored.
// Devices may pick the nearest size they support.
func (c *cameraImpl) SetSize(size catalog.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.size = size
	c.applySize()
}

// Size returns the requested capture size.
func (c *cameraImpl) Size() catalog.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// IsOpen returns true if the camera is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
