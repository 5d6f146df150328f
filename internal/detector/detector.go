// Package detector finds objects of interest in video frames.
package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// Detection is one object found in a frame.
type Detection struct {
	Label string
	Score float64
	Box   image.Rectangle
}

// Detector defines the interface for frame detectors.
type Detector interface {
	// Detect analyzes a frame and returns what it found. An empty slice means nothing.
	Detect(frame *gocv.Mat) ([]Detection, error)

	// Reset drops any tracking state, as after a change of frame dimensions.
	Reset()

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds detector tuning.
type Config struct {
	// Threshold is the percentage of changed pixels that counts as activity.
	Threshold float64

	// MinArea is the smallest contour area, in pixels, reported as an object.
	MinArea float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Threshold: 1.0,
		MinArea:   500,
	}
}
