package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var errUnavailable = errors.New("unavailable")

// flakyStore fails every call while down is set.
type flakyStore struct {
	down bool
	best int
	gets int
	sets int
}

func (f *flakyStore) SaveScore(context.Context, ScoreEntry) (int64, error) { return 0, nil }

func (f *flakyStore) TopScores(context.Context, string, int) ([]ScoreEntry, error) {
	return nil, nil
}

func (f *flakyStore) HighScore(context.Context, string) (int, error) {
	f.gets++
	if f.down {
		return 0, errUnavailable
	}
	return f.best, nil
}

func (f *flakyStore) SetHighScore(_ context.Context, _ string, score int) error {
	f.sets++
	if f.down {
		return errUnavailable
	}
	f.best = max(f.best, score)
	return nil
}

func (f *flakyStore) Stats(context.Context, string) (Stats, error) { return Stats{}, nil }
func (f *flakyStore) ClearScores(context.Context, string) error    { return nil }
func (f *flakyStore) Close() error                                 { return nil }

func TestBestScoreCachesAfterLoad(t *testing.T) {
	store := &flakyStore{best: 256}
	b := NewBestScore(store, "4x4", nil)

	for range 3 {
		if got := b.Get(); got != 256 {
			t.Fatalf("Get() = %d, want 256", got)
		}
	}
	if store.gets != 1 {
		t.Errorf("HighScore called %d times, want 1", store.gets)
	}
}

func TestBestScoreDegradesOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	store := &flakyStore{down: true}
	b := NewBestScore(store, "4x4", logger)

	if got := b.Get(); got != 0 {
		t.Errorf("Get() with failing store = %d, want 0", got)
	}

	b.Set(128)
	if got := b.Get(); got != 128 {
		t.Errorf("Get() after failed Set = %d, want cached 128", got)
	}
	if !strings.Contains(buf.String(), "could not save high score") {
		t.Errorf("expected a warning, got %q", buf.String())
	}

	// Store recovers: a reload keeps the larger cached value.
	store.down = false
	store.best = 64
	if got := b.Get(); got != 128 {
		t.Errorf("Get() after recovery = %d, want 128", got)
	}
}

func TestBestScoreBacksOffAfterFailedLoad(t *testing.T) {
	store := &flakyStore{down: true}
	b := NewBestScore(store, "4x4", nil)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	for range 20 {
		if got := b.Get(); got != 0 {
			t.Fatalf("Get() = %d, want 0", got)
		}
	}
	if store.gets != 1 {
		t.Fatalf("HighScore called %d times while down, want 1", store.gets)
	}

	clock = clock.Add(loadRetryInterval - time.Second)
	b.Get()
	if store.gets != 1 {
		t.Errorf("HighScore retried before the interval passed (%d calls)", store.gets)
	}

	store.down = false
	store.best = 512
	clock = clock.Add(2 * time.Second)
	if got := b.Get(); got != 512 {
		t.Errorf("Get() after interval = %d, want 512", got)
	}
	if store.gets != 2 {
		t.Errorf("HighScore called %d times, want 2", store.gets)
	}

	b.Get()
	if store.gets != 2 {
		t.Errorf("loaded value should be cached, got %d calls", store.gets)
	}
}

func TestBestScoreIgnoresLowerValues(t *testing.T) {
	store := &flakyStore{}
	b := NewBestScore(store, "4x4", nil)

	b.Set(100)
	b.Set(50)
	b.Set(100)
	if store.sets != 1 || b.Get() != 100 {
		t.Errorf("sets = %d, Get() = %d", store.sets, b.Get())
	}
}

func TestBestScoreWithoutStore(t *testing.T) {
	b := NewBestScore(nil, "4x4", nil)
	b.Set(32)
	if b.Get() != 32 {
		t.Errorf("Get() = %d, want 32", b.Get())
	}
}

func TestMode(t *testing.T) {
	if got := Mode(4, 6); got != "4x6" {
		t.Errorf("Mode(4, 6) = %q", got)
	}
}
