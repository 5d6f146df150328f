// Package logging provides leveled logging for visionpanel.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is a logging verbosity level.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var (
	logger = log.New(os.Stderr, "", log.LstdFlags)
	level  atomic.Int32
)

func init() {
	level.Store(int32(LevelInfo))
}

// ParseLevel converts a level name to a Level. Unknown names map to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func enabled(l Level) bool {
	return Level(level.Load()) <= l
}

func Debugf(format string, v ...any) {
	if enabled(LevelDebug) {
		logger.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...any) {
	if enabled(LevelInfo) {
		logger.Printf("[INFO] "+format, v...)
	}
}

func Errorf(format string, v ...any) {
	if enabled(LevelError) {
		logger.Printf("[ERROR] "+format, v...)
	}
}

func Fatalf(format string, v ...any) {
	logger.Fatalf("[FATAL] "+format, v...)
}
