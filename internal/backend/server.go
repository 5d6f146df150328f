// Package backend serves the camera stream and the control routes the panel talks to.
package backend

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/ayusman/visionpanel/internal/command"
	"github.com/ayusman/visionpanel/internal/detector"
	"github.com/ayusman/visionpanel/internal/logging"
)

// Config holds the server configuration.
type Config struct {
	State    *State
	Frames   *FrameBuffer
	Captures *Captures
	Detector detector.Detector
	// Events serves the event feed websocket. Nil leaves /events unregistered.
	Events http.Handler
	// Panel serves "/" when set.
	Panel http.Handler
}

// Server routes backend HTTP requests.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc(command.PathToggleAspectRatio, s.handleToggleAspectRatio)
	s.mux.HandleFunc(command.PathToggleLatency, s.handleToggleLatency)
	s.mux.HandleFunc(command.PathChangeResolution, s.handleChangeResolution)
	s.mux.HandleFunc(command.PathResetTracker, s.handleResetTracker)

	if s.config.Frames != nil {
		s.mux.Handle(command.PathVideoFeed, NewStreamHandler(s.config.Frames))
		s.mux.HandleFunc(command.PathScreenshot, s.handleScreenshot)
	}

	if s.config.Events != nil {
		s.mux.Handle(command.PathEvents, s.config.Events)
	}

	if s.config.Panel != nil {
		s.mux.Handle("/", s.config.Panel)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("failed to encode response: %v", err)
	}
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

func (s *Server) handleToggleAspectRatio(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	ratio := s.config.State.ToggleRatio()
	logging.Infof("aspect ratio set to %s", ratio)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": command.StatusSuccess,
		"ratio":  ratio,
	})
}

func (s *Server) handleToggleLatency(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	on := s.config.State.ToggleLatency()
	logging.Infof("low latency mode: %v", on)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": command.StatusSuccess,
		"mode":   on,
	})
}

func (s *Server) handleChangeResolution(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Resolution string `json:"resolution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":  "error",
			"message": "Invalid request body",
		})
		return
	}

	if err := s.config.State.SetResolution(req.Resolution); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":  "error",
			"message": "Invalid resolution",
		})
		return
	}

	logging.Infof("resolution set to %s", req.Resolution)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     command.StatusSuccess,
		"resolution": req.Resolution,
	})
}

func (s *Server) handleResetTracker(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if s.config.Detector != nil {
		s.config.Detector.Reset()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  command.StatusSuccess,
		"message": "Tracker reset",
	})
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	jpeg, ok, err := s.config.Frames.EncodeSnapshot()
	if !ok {
		http.Error(w, "No frame captured yet", http.StatusBadRequest)
		return
	}
	if err != nil {
		logging.Errorf("failed to encode screenshot: %v", err)
		http.Error(w, "Failed to encode frame", http.StatusInternalServerError)
		return
	}

	settings := s.config.State.Snapshot()
	name := "capture.jpg"
	if s.config.Captures != nil {
		path, err := s.config.Captures.Save(jpeg, settings)
		if err != nil {
			logging.Errorf("failed to save screenshot: %v", err)
			http.Error(w, "Failed to save screenshot", http.StatusInternalServerError)
			return
		}
		name = filepath.Base(path)
		logging.Infof("screenshot saved to %s", path)

		if _, err := s.config.Captures.Prune(); err != nil {
			logging.Errorf("capture prune failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := w.Write(jpeg); err != nil {
		logging.Debugf("screenshot write: %v", err)
	}
}
