// Package events carries detection and performance events from the backend to panels.
package events

import "time"

// Event types.
const (
	TypeDetection = "detection"
	TypeStats     = "stats"
)

// Event is one message on the feed.
type Event struct {
	Type      string  `json:"type"`
	Count     int     `json:"count,omitempty"`
	FPS       float64 `json:"fps,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Detection builds a detection event for count objects.
func Detection(count int) Event {
	return Event{Type: TypeDetection, Count: count, Timestamp: time.Now().UnixMilli()}
}

// Stats builds a performance event.
func Stats(fps float64) Event {
	return Event{Type: TypeStats, FPS: fps, Timestamp: time.Now().UnixMilli()}
}

// Handler receives events from a subscription.
type Handler interface {
	OnDetection()
	OnStats(fps float64)
}
