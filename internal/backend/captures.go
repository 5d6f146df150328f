package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/store"
)

// DefaultCaptureMaxAge is how long screenshots are kept.
const DefaultCaptureMaxAge = 7 * 24 * time.Hour

// CaptureIndex records screenshot files. *store.CaptureRepository satisfies it.
type CaptureIndex interface {
	Create(c *store.Capture) error
	OlderThan(cutoff time.Time) ([]*store.Capture, error)
	Delete(id string) error
}

// Captures writes screenshot files and prunes old ones.
type Captures struct {
	dir    string
	index  CaptureIndex
	maxAge time.Duration
	clock  clock.Clock
}

// NewCaptures creates a Captures rooted at dir. index may be nil, in which
// case files are written but never pruned. A nil clk uses the wall clock.
func NewCaptures(dir string, index CaptureIndex, maxAge time.Duration, clk clock.Clock) *Captures {
	if maxAge <= 0 {
		maxAge = DefaultCaptureMaxAge
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Captures{dir: dir, index: index, maxAge: maxAge, clock: clk}
}

// Dir returns the capture directory.
func (c *Captures) Dir() string {
	return c.dir
}

// Save writes jpeg as capture_YYYYMMDD-HHMMSS.jpg and returns its path.
func (c *Captures) Save(jpeg []byte, s Settings) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create capture dir: %w", err)
	}

	now := c.clock.Now()
	path := filepath.Join(c.dir, fmt.Sprintf("capture_%s.jpg", now.Format("20060102-150405")))
	if err := os.WriteFile(path, jpeg, 0o644); err != nil {
		return "", fmt.Errorf("failed to write capture: %w", err)
	}

	if c.index != nil {
		rec := &store.Capture{
			Path:       path,
			Ratio:      string(s.Ratio),
			Resolution: s.Resolution,
			SizeBytes:  int64(len(jpeg)),
			CreatedAt:  now,
		}
		// Two shots within one second share a file name.
		if err := c.index.Create(rec); err != nil {
			logging.Debugf("capture %s not indexed: %v", path, err)
		}
	}

	return path, nil
}

// Prune deletes captures older than the max age and returns how many were removed.
func (c *Captures) Prune() (int, error) {
	if c.index == nil {
		return 0, nil
	}

	old, err := c.index.OlderThan(c.clock.Now().Add(-c.maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to list old captures: %w", err)
	}

	removed := 0
	for _, rec := range old {
		if err := os.Remove(rec.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.Errorf("failed to remove capture %s: %v", rec.Path, err)
			continue
		}
		if err := c.index.Delete(rec.ID); err != nil {
			logging.Errorf("failed to delete capture row %s: %v", rec.ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logging.Infof("pruned %d captures older than %s", removed, c.maxAge)
	}
	return removed, nil
}
