// Package config holds runtime settings for visionpanel.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// DataDirEnv overrides the default data directory.
const DataDirEnv = "VISIONPANEL_DATA"

type Config struct {
	// Addr is the listen address for the backend and the browser panel.
	Addr string
	// BackendURL is where the panel sends commands. Empty means the local backend.
	BackendURL string
	CameraID   int
	DataDir    string
	// MotionThresh is the percentage of changed pixels that counts as a detection.
	MotionThresh float64
	// CaptureMaxAge is how long screenshots are kept before pruning.
	CaptureMaxAge time.Duration
	// Tray runs the system tray panel in addition to the browser panel.
	Tray bool
	// TrayViewport is the viewport width the tray panel reports.
	TrayViewport int
	LogLevel     string
}

func DefaultConfig() Config {
	return Config{
		Addr:          ":5000",
		CameraID:      0,
		DataDir:       defaultDataDir(),
		MotionThresh:  1.0,
		CaptureMaxAge: 7 * 24 * time.Hour,
		TrayViewport:  1920,
		LogLevel:      "info",
	}
}

func defaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".visionpanel"
	}
	return filepath.Join(homeDir, ".visionpanel")
}

// DBPath returns the SQLite database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "visionpanel.db")
}

// CaptureDir returns the directory screenshots are written to.
func (c Config) CaptureDir() string {
	return filepath.Join(c.DataDir, "captures")
}

// PanelBackendURL returns the backend base URL the panel should call.
func (c Config) PanelBackendURL() string {
	if c.BackendURL != "" {
		return c.BackendURL
	}
	return c.LocalURL()
}

// LocalURL returns the base URL of this process's own listener.
func (c Config) LocalURL() string {
	addr := c.Addr
	if len(addr) > 0 && addr[0] == ':' {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr
}
