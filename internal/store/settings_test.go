package store

import (
	"errors"
	"testing"
)

func TestSettings_GetSet(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get(KeyResolution); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := repo.Set(KeyResolution, "720p"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(KeyResolution, "1080p"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := repo.Get(KeyResolution)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "1080p" {
		t.Errorf("Get() = %q, want 1080p", got)
	}
}

func TestSettings_Bool(t *testing.T) {
	repo := newTestStore(t).Settings()

	got, err := repo.GetBool(KeyLowLatency, true)
	if err != nil || !got {
		t.Errorf("GetBool() missing = %v, %v; want default true", got, err)
	}

	if err := repo.SetBool(KeyLowLatency, false); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	got, err = repo.GetBool(KeyLowLatency, true)
	if err != nil || got {
		t.Errorf("GetBool() = %v, %v; want false", got, err)
	}

	repo.Set(KeyLowLatency, "not-a-bool")
	got, err = repo.GetBool(KeyLowLatency, true)
	if err != nil || !got {
		t.Errorf("GetBool() malformed = %v, %v; want default true", got, err)
	}
}

func TestSettings_All(t *testing.T) {
	repo := newTestStore(t).Settings()

	repo.Set(KeyRatio, "16:9")
	repo.SetBool(KeyLowLatency, true)

	all, err := repo.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 2 || all[KeyRatio] != "16:9" || all[KeyLowLatency] != "true" {
		t.Errorf("All() = %v", all)
	}
}
