// Package memory provides an in-memory score store. Scores are lost when the
// process exits.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/registry"
	"github.com/vovakirdan/merge2048/internal/storage"
)

func init() {
	registry.Register(config.BackendMemory, "in-process, not persisted", func(context.Context, config.StorageConfig) (storage.ScoreStore, error) {
		return New(), nil
	})
}

// Store is an in-memory implementation of storage.ScoreStore.
type Store struct {
	mu sync.RWMutex

	nextID int64
	scores map[string][]storage.ScoreEntry
	best   map[string]int

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		scores: make(map[string][]storage.ScoreEntry),
		best:   make(map[string]int),
		now:    time.Now,
	}
}

// Ensure Store implements the interface
var _ storage.ScoreStore = (*Store)(nil)

func (s *Store) SaveScore(_ context.Context, entry storage.ScoreEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	s.scores[entry.Mode] = append(s.scores[entry.Mode], entry)
	return entry.ID, nil
}

func (s *Store) TopScores(_ context.Context, mode string, limit int) ([]storage.ScoreEntry, error) {
	if limit <= 0 {
		limit = storage.DefaultTopLimit
	}

	s.mu.RLock()
	entries := append([]storage.ScoreEntry(nil), s.scores[mode]...)
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) HighScore(_ context.Context, mode string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	high := s.best[mode]
	for _, e := range s.scores[mode] {
		high = max(high, e.Score)
	}
	return high, nil
}

func (s *Store) SetHighScore(_ context.Context, mode string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if score > s.best[mode] {
		s.best[mode] = score
	}
	return nil
}

func (s *Store) Stats(_ context.Context, mode string) (storage.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := storage.Stats{Mode: mode}
	for _, e := range s.scores[mode] {
		stats.GamesCount++
		stats.TotalScore += int64(e.Score)
		stats.HighScore = max(stats.HighScore, e.Score)
		if e.CreatedAt.After(stats.LastPlayed) {
			stats.LastPlayed = e.CreatedAt
		}
	}
	if stats.GamesCount > 0 {
		stats.AvgScore = float64(stats.TotalScore) / float64(stats.GamesCount)
	}
	return stats, nil
}

func (s *Store) ClearScores(_ context.Context, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.scores, mode)
	delete(s.best, mode)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
