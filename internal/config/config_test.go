package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(DataDirEnv, "/tmp/vp-data")
	cfg := DefaultConfig()

	if cfg.Addr != ":5000" {
		t.Errorf("Addr = %q, want :5000", cfg.Addr)
	}
	if cfg.MotionThresh != 1.0 {
		t.Errorf("MotionThresh = %v, want 1.0", cfg.MotionThresh)
	}
	if cfg.CaptureMaxAge != 7*24*time.Hour {
		t.Errorf("CaptureMaxAge = %v, want 168h", cfg.CaptureMaxAge)
	}
	if cfg.DataDir != "/tmp/vp-data" {
		t.Errorf("DataDir = %q, want /tmp/vp-data", cfg.DataDir)
	}
	if cfg.Tray {
		t.Error("Tray should be off by default")
	}
	if got, want := cfg.DBPath(), filepath.Join("/tmp/vp-data", "visionpanel.db"); got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}
	if got, want := cfg.CaptureDir(), filepath.Join("/tmp/vp-data", "captures"); got != want {
		t.Errorf("CaptureDir() = %q, want %q", got, want)
	}
}

func TestPanelBackendURL(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		backend string
		want    string
	}{
		{"port only", ":5000", "", "http://127.0.0.1:5000"},
		{"host and port", "0.0.0.0:8080", "", "http://0.0.0.0:8080"},
		{"explicit backend", ":5000", "http://cam.local:5000", "http://cam.local:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Addr: tt.addr, BackendURL: tt.backend}
			if got := cfg.PanelBackendURL(); got != tt.want {
				t.Errorf("PanelBackendURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalURL_IgnoresBackend(t *testing.T) {
	cfg := Config{Addr: ":5000", BackendURL: "http://cam.local:5000"}
	if got := cfg.LocalURL(); got != "http://127.0.0.1:5000" {
		t.Errorf("LocalURL() = %q", got)
	}
}
