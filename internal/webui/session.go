package webui

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/notify"
	"github.com/ayusman/visionpanel/internal/panel"
)

const writeWait = 5 * time.Second

// Session is one connected page. It is the panel's View, the notifier's
// Surface and every optional capability the page reported.
type Session struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex
	closed  bool

	mu         sync.Mutex
	width      int
	streamSrc  string
	fullscreen bool
}

func newSession(conn *websocket.Conn, hello ClientMessage) *Session {
	return &Session{
		id:        uuid.New().String(),
		conn:      conn,
		width:     hello.Width,
		streamSrc: hello.StreamSrc,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) send(op RenderOp) {
	msg, err := json.Marshal(op)
	if err != nil {
		logging.Errorf("session %s: marshal %s: %v", s.id, op.Op, err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		logging.Debugf("session %s: write %s: %v", s.id, op.Op, err)
	}
}

func (s *Session) close() {
	s.writeMu.Lock()
	s.closed = true
	s.writeMu.Unlock()
}

func (s *Session) setFullscreen(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullscreen = active
}

func (s *Session) ViewportWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *Session) StreamSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamSrc
}

func (s *Session) SetStreamSource(src string) {
	s.mu.Lock()
	s.streamSrc = src
	s.mu.Unlock()
	s.send(RenderOp{Op: OpSrc, ID: ElemStream, URL: src})
}

func (s *Session) SetStreamButton(label, color string) {
	s.send(RenderOp{Op: OpText, ID: ElemStreamBtn, Text: label, Style: map[string]string{"color": color}})
}

func (s *Session) SetHapticsButton(label, borderColor string) {
	s.send(RenderOp{Op: OpText, ID: ElemHapticsBtn, Text: label, Style: map[string]string{"borderColor": borderColor}})
}

func (s *Session) SetRatioLabel(r catalog.Ratio) {
	s.send(RenderOp{Op: OpText, ID: ElemRatio, Text: string(r)})
}

func (s *Session) SetResolutionOptions(opts []catalog.Option) {
	s.send(RenderOp{Op: OpOptions, ID: ElemResolution, Options: opts})
}

func (s *Session) SetLatencyButton(label string) {
	s.send(RenderOp{Op: OpText, ID: ElemLatencyBtn, Text: label})
}

func (s *Session) SetAccelStatus(text, color string) {
	s.send(RenderOp{Op: OpText, ID: ElemAccel, Text: text, Style: map[string]string{"color": color}})
}

func (s *Session) SetPerformance(fps, color string) {
	s.send(RenderOp{Op: OpText, ID: ElemFPS, Text: fps, Style: map[string]string{"color": color}})
}

func (s *Session) IsFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen
}

// ShowToast and HideToast make the session a notify.Surface.
func (s *Session) ShowToast(text, color string) {
	s.send(RenderOp{Op: OpToast, Text: text, Style: map[string]string{"background": color}})
}

func (s *Session) HideToast() {
	s.send(RenderOp{Op: OpHideToast})
}

func (s *Session) Vibrate(d time.Duration) {
	s.send(RenderOp{Op: OpVibrate, Millis: d.Milliseconds()})
}

func (s *Session) RequestFullscreen() error {
	s.send(RenderOp{Op: OpFullscreen, Mode: "request"})
	return nil
}

func (s *Session) WebkitRequestFullscreen() error {
	s.send(RenderOp{Op: OpFullscreen, Mode: "webkit"})
	return nil
}

func (s *Session) ExitFullscreen() error {
	s.send(RenderOp{Op: OpFullscreen, Mode: "exit"})
	return nil
}

func (s *Session) Navigate(url string) {
	s.send(RenderOp{Op: OpNavigate, URL: url})
}

var (
	_ panel.View               = (*Session)(nil)
	_ notify.Surface           = (*Session)(nil)
	_ panel.Vibrator           = (*Session)(nil)
	_ panel.Fullscreen         = (*Session)(nil)
	_ panel.PrefixedFullscreen = (*Session)(nil)
	_ panel.Navigator          = (*Session)(nil)
)
