package command

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/visionpanel/internal/catalog"
)

func TestClient_ChangeResolution(t *testing.T) {
	var gotBody map[string]string
	var gotMethod, gotType string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathChangeResolution {
			t.Errorf("path = %s, want %s", r.URL.Path, PathChangeResolution)
		}
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"status":"success","resolution":"1080p"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	env, err := c.ChangeResolution(context.Background(), "1080p")
	if err != nil {
		t.Fatalf("ChangeResolution() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotType)
	}
	if gotBody["resolution"] != "1080p" {
		t.Errorf("body resolution = %q, want 1080p", gotBody["resolution"])
	}
	if !env.OK() || env.Resolution != "1080p" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestClient_ErrorStatusWithJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"Invalid resolution"}`))
	}))
	defer ts.Close()

	env, err := NewClient(ts.URL, ts.Client()).ChangeResolution(context.Background(), "4k")
	if err != nil {
		t.Fatalf("ChangeResolution() error = %v, want decoded envelope", err)
	}
	if env.OK() {
		t.Error("envelope should not be OK")
	}
	if env.Message != "Invalid resolution" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestClient_ParseFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	if _, err := c.ResetTracker(context.Background()); err == nil {
		t.Error("ResetTracker() expected parse error")
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(url, nil)
	if _, err := c.ToggleLatency(context.Background()); err == nil {
		t.Error("ToggleLatency() expected transport error")
	}
}

func TestClient_ToggleAspectRatio(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantRatio string
	}{
		{"valid ratio", `{"status":"success","ratio":"4:3"}`, false, "4:3"},
		{"unknown ratio", `{"status":"success","ratio":"21:9"}`, true, ""},
		{"non-success skips validation", `{"status":"error"}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.ContentLength > 0 {
					t.Errorf("ratio toggle sent a body of %d bytes", r.ContentLength)
				}
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			env, err := NewClient(ts.URL, ts.Client()).ToggleAspectRatio(context.Background())
			if tt.wantErr {
				if !errors.Is(err, catalog.ErrUnknownRatio) {
					t.Errorf("error = %v, want ErrUnknownRatio", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToggleAspectRatio() error = %v", err)
			}
			if env.Ratio != tt.wantRatio {
				t.Errorf("ratio = %q, want %q", env.Ratio, tt.wantRatio)
			}
		})
	}
}

func TestClient_ToggleLatencyMode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"mode":true}`))
	}))
	defer ts.Close()

	env, err := NewClient(ts.URL, ts.Client()).ToggleLatency(context.Background())
	if err != nil {
		t.Fatalf("ToggleLatency() error = %v", err)
	}
	if !env.Mode {
		t.Error("mode = false, want true")
	}
}

func TestClient_URLs(t *testing.T) {
	c := NewClient("http://cam.local:5000/", nil)

	if got := c.ScreenshotURL(); got != "http://cam.local:5000/screenshot" {
		t.Errorf("ScreenshotURL() = %s", got)
	}
	if got := c.StreamURL(); got != "http://cam.local:5000/video_feed" {
		t.Errorf("StreamURL() = %s", got)
	}
	if got := c.EventsURL(); got != "ws://cam.local:5000/events" {
		t.Errorf("EventsURL() = %s", got)
	}
	if got := NewClient("https://cam.example", nil).EventsURL(); got != "wss://cam.example/events" {
		t.Errorf("EventsURL() = %s", got)
	}
}
