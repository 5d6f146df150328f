package webui

import (
	"github.com/ayusman/visionpanel/internal/catalog"
)

// Browser to server message types.
const (
	MsgTypeHello  = "hello"
	MsgTypeAction = "action"
)

// Actions carried by MsgTypeAction.
const (
	ActionToggleStream     = "toggle_stream"
	ActionToggleHaptics    = "toggle_haptics"
	ActionToggleFullscreen = "toggle_fullscreen"
	ActionToggleRatio      = "toggle_ratio"
	ActionSetResolution    = "set_resolution"
	ActionResetTracker     = "reset_tracker"
	ActionToggleLatency    = "toggle_latency"
	ActionScreenshot       = "screenshot"
	ActionTouchStart       = "touch_start"
	ActionTouchEnd         = "touch_end"
	ActionFullscreenState  = "fullscreen_state"
)

// Fullscreen API flavors reported in the hello message.
const (
	FullscreenStandard = "standard"
	FullscreenWebkit   = "webkit"
)

// ClientMessage is a message from the browser page.
type ClientMessage struct {
	Type string `json:"type"`

	// hello
	Width      int    `json:"width,omitempty"`
	Vibrate    bool   `json:"vibrate,omitempty"`
	Fullscreen string `json:"fullscreen,omitempty"`
	StreamSrc  string `json:"streamSrc,omitempty"`

	// action
	Action string  `json:"action,omitempty"`
	Value  string  `json:"value,omitempty"`
	X      float64 `json:"x,omitempty"`
	Active bool    `json:"active,omitempty"`
}

// Render operations sent to the page.
const (
	OpText       = "text"
	OpSrc        = "src"
	OpOptions    = "options"
	OpToast      = "toast"
	OpHideToast  = "hide_toast"
	OpVibrate    = "vibrate"
	OpFullscreen = "fullscreen"
	OpNavigate   = "navigate"
)

// Element IDs in the page.
const (
	ElemStream     = "video-stream"
	ElemStreamBtn  = "stream-btn"
	ElemHapticsBtn = "haptics-btn"
	ElemRatio      = "ratio-display"
	ElemResolution = "resolution-select"
	ElemLatencyBtn = "latency-btn"
	ElemAccel      = "accel-status"
	ElemFPS        = "fps-display"
)

// RenderOp is one instruction for the page's renderer.
type RenderOp struct {
	Op      string            `json:"op"`
	ID      string            `json:"id,omitempty"`
	Text    string            `json:"text,omitempty"`
	URL     string            `json:"url,omitempty"`
	Style   map[string]string `json:"style,omitempty"`
	Options []catalog.Option  `json:"options,omitempty"`
	Mode    string            `json:"mode,omitempty"`
	Millis  int64             `json:"ms,omitempty"`
}
