package backend

import (
	"errors"
	"sync"

	"github.com/ayusman/visionpanel/internal/catalog"
	"github.com/ayusman/visionpanel/internal/logging"
	"github.com/ayusman/visionpanel/internal/store"
)

// DefaultResolution is the resolution used before any is chosen.
const DefaultResolution = "720p"

// ErrInvalidResolution is returned for a label that no aspect ratio offers.
var ErrInvalidResolution = errors.New("invalid resolution")

// Settings is a snapshot of the operator-controlled backend state.
type Settings struct {
	Ratio      catalog.Ratio
	Resolution string
	LowLatency bool
}

// SettingsStore persists settings between runs. *store.SettingsRepository satisfies it.
type SettingsStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	GetBool(key string, def bool) (bool, error)
	SetBool(key string, value bool) error
}

// State holds the backend settings shared by the HTTP handlers and the pipeline.
type State struct {
	mu       sync.Mutex
	settings Settings
	persist  SettingsStore
}

// NewState creates a State with defaults, then overlays any values found in
// persist. A nil persist keeps the state in memory only.
func NewState(persist SettingsStore) *State {
	s := &State{
		settings: Settings{
			Ratio:      catalog.Ratio16x9,
			Resolution: DefaultResolution,
		},
		persist: persist,
	}
	if persist == nil {
		return s
	}

	if v, err := persist.Get(store.KeyRatio); err == nil {
		if r, err := catalog.ParseRatio(v); err == nil {
			s.settings.Ratio = r
		} else {
			logging.Errorf("ignoring stored ratio %q: %v", v, err)
		}
	}
	if v, err := persist.Get(store.KeyResolution); err == nil && catalog.IsKnownResolution(v) {
		s.settings.Resolution = v
	}
	if b, err := persist.GetBool(store.KeyLowLatency, false); err == nil {
		s.settings.LowLatency = b
	}

	return s
}

// Snapshot returns the current settings.
func (s *State) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ToggleRatio flips between 16:9 and 4:3 and returns the new ratio.
func (s *State) ToggleRatio() catalog.Ratio {
	s.mu.Lock()
	s.settings.Ratio = s.settings.Ratio.Other()
	r := s.settings.Ratio
	s.mu.Unlock()

	s.save(store.KeyRatio, string(r))
	return r
}

// ToggleLatency flips low-latency mode and returns the new mode.
func (s *State) ToggleLatency() bool {
	s.mu.Lock()
	s.settings.LowLatency = !s.settings.LowLatency
	on := s.settings.LowLatency
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SetBool(store.KeyLowLatency, on); err != nil {
			logging.Errorf("failed to persist %s: %v", store.KeyLowLatency, err)
		}
	}
	return on
}

// SetResolution selects label. Any label of any ratio is accepted; the
// pipeline falls back when it does not belong to the active ratio.
func (s *State) SetResolution(label string) error {
	if !catalog.IsKnownResolution(label) {
		return ErrInvalidResolution
	}

	s.mu.Lock()
	s.settings.Resolution = label
	s.mu.Unlock()

	s.save(store.KeyResolution, label)
	return nil
}

func (s *State) save(key, value string) {
	if s.persist == nil {
		return
	}
	if err := s.persist.Set(key, value); err != nil {
		logging.Errorf("failed to persist %s: %v", key, err)
	}
}

// adoptFallback records the resolution the pipeline fell back to, unless the
// operator changed it in the meantime.
func (s *State) adoptFallback(from, to string) {
	s.mu.Lock()
	if s.settings.Resolution != from {
		s.mu.Unlock()
		return
	}
	s.settings.Resolution = to
	s.mu.Unlock()

	s.save(store.KeyResolution, to)
}
