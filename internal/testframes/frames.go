// Package testframes builds synthetic camera frames for tests.
package testframes

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/visionpanel/internal/catalog"
)

// VGA is the default test frame size.
var VGA = catalog.Size{Width: 640, Height: 480}

// Blank returns a black BGR frame. The caller closes it.
func Blank(size catalog.Size) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), size.Height, size.Width, gocv.MatTypeCV8UC3)
}

// WithBox returns a black frame with a filled white rectangle r.
func WithBox(size catalog.Size, r image.Rectangle) gocv.Mat {
	m := Blank(size)
	gocv.Rectangle(&m, r, color.RGBA{255, 255, 255, 0}, -1)
	return m
}

// MovingBox returns n frames with a side x side box moving step pixels right
// per frame, starting at (x, y).
func MovingBox(size catalog.Size, n, x, y, side, step int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		left := x + i*step
		m := WithBox(size, image.Rect(left, y, left+side, y+side))
		frames = append(frames, &m)
	}
	return frames
}

// CloseAll closes every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
