// Package webui serves the browser control panel. The page is a thin renderer:
// it forwards input over a websocket and applies render operations, while all
// panel behavior runs in Go.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"

	"github.com/ayusman/visionpanel/internal/command"
	"github.com/ayusman/visionpanel/internal/events"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/notify"
	"github.com/ayusman/visionpanel/internal/panel"
)

// PathSocket is the panel websocket route.
const PathSocket = "/panel/ws"

// helloWait bounds how long a new socket may stay silent before its hello.
const helloWait = 10 * time.Second

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Config wires a Handler.
type Config struct {
	// Commands talks to the camera backend.
	Commands *command.Client
	// Clock drives toast timers. Nil uses wall time.
	Clock clock.Clock
	// AccelStatus overrides the acceleration readout.
	AccelStatus string
	// DisableEvents skips the backend event feed subscription.
	DisableEvents bool
}

// Handler serves the panel page and its websocket.
type Handler struct {
	cfg   Config
	mux   *http.ServeMux
	clock clock.Clock

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewHandler creates a Handler.
func NewHandler(cfg Config) *Handler {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	h := &Handler{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		clock:    clk,
		sessions: make(map[string]*Session),
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	h.mux.HandleFunc(PathSocket, h.serveSocket)
	h.mux.Handle("/", http.FileServer(http.FS(static)))
	return h
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Sessions returns the number of connected pages.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Handler) serveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Errorf("panel websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	hello, err := readHello(conn)
	if err != nil {
		logging.Errorf("panel handshake failed: %v", err)
		return
	}

	sess := newSession(conn, hello)
	if sess.StreamSource() == "" {
		sess.SetStreamSource(command.PathVideoFeed)
	}

	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.mu.Unlock()

	notifier := notify.New(sess, h.clock)
	p := panel.New(sessionConfig(sess, hello, h.cfg, notifier))
	p.Start()

	logging.Infof("panel session %s connected (width %d)", sess.id, hello.Width)

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		notifier.Close()
		sess.close()

		h.mu.Lock()
		delete(h.sessions, sess.id)
		h.mu.Unlock()
		logging.Infof("panel session %s disconnected", sess.id)
	}()

	if !h.cfg.DisableEvents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := events.Subscribe(ctx, h.cfg.Commands.EventsURL(), eventBridge{p})
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.Infof("session %s: event feed unavailable: %v", sess.id, err)
			}
		}()
	}

	// In-flight commands are not cancelled when the page goes away.
	cmdCtx := context.WithoutCancel(ctx)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Errorf("session %s: read error: %v", sess.id, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Debugf("session %s: invalid message: %v", sess.id, err)
			continue
		}
		if msg.Type != MsgTypeAction {
			continue
		}

		dispatch(cmdCtx, p, sess, msg, &wg)
	}
}

func readHello(conn *websocket.Conn) (ClientMessage, error) {
	var hello ClientMessage

	conn.SetReadDeadline(time.Now().Add(helloWait))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return hello, err
	}
	conn.SetReadDeadline(time.Time{})

	if err := json.Unmarshal(data, &hello); err != nil {
		return hello, err
	}
	if hello.Type != MsgTypeHello {
		return hello, errors.New("first message was not hello")
	}
	return hello, nil
}

// sessionConfig exposes only the capabilities the page reported.
func sessionConfig(sess *Session, hello ClientMessage, cfg Config, toast panel.Toaster) panel.Config {
	pc := panel.Config{
		View:        sess,
		Commands:    cfg.Commands,
		Notifier:    toast,
		Navigator:   sess,
		AccelStatus: cfg.AccelStatus,

		ScreenshotURL: command.PathScreenshot,
	}
	if hello.Vibrate {
		pc.Vibrator = sess
	}
	switch hello.Fullscreen {
	case FullscreenStandard:
		pc.Fullscreen = sess
	case FullscreenWebkit:
		pc.PrefixedFullscreen = sess
	}
	return pc
}

// dispatch applies one action. Local actions run inline; network commands get
// their own goroutine so a slow backend never blocks input.
func dispatch(ctx context.Context, p *panel.Panel, sess *Session, msg ClientMessage, wg *sync.WaitGroup) {
	async := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	switch msg.Action {
	case ActionToggleStream:
		p.ToggleStream()
	case ActionToggleHaptics:
		p.ToggleHaptics()
	case ActionToggleFullscreen:
		p.ToggleFullscreen()
	case ActionFullscreenState:
		sess.setFullscreen(msg.Active)
	case ActionScreenshot:
		p.TakeScreenshot()
	case ActionTouchStart:
		p.TouchStart(msg.X)
	case ActionTouchEnd:
		// The swipe is measured here so a following touch_start cannot move its origin.
		if p.IsSwipe(msg.X) {
			async(func() { p.ToggleAspectRatio(ctx) })
		}
	case ActionToggleRatio:
		async(func() { p.ToggleAspectRatio(ctx) })
	case ActionSetResolution:
		label := msg.Value
		async(func() { p.SetResolution(ctx, label) })
	case ActionResetTracker:
		async(func() { p.ResetTracker(ctx) })
	case ActionToggleLatency:
		async(func() { p.ToggleLatency(ctx) })
	default:
		logging.Debugf("session %s: unknown action %q", sess.id, msg.Action)
	}
}

// eventBridge feeds backend events into a panel.
type eventBridge struct {
	p *panel.Panel
}

func (b eventBridge) OnDetection()        { b.p.TriggerDetectionHaptic() }
func (b eventBridge) OnStats(fps float64) { b.p.UpdatePerformanceStats(fps) }
