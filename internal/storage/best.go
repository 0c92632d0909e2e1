package storage

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// bestScoreTimeout bounds each store call made from the game loop.
const bestScoreTimeout = 2 * time.Second

// loadRetryInterval is how long Get serves the cached value after a failed load.
const loadRetryInterval = 30 * time.Second

// BestScore keeps the high score for one mode. It satisfies the engine's
// high-score collaborator: Get and Set never fail. Store errors are logged
// and the last known value is used instead.
type BestScore struct {
	store  ScoreStore
	mode   string
	logger *log.Logger

	mu         sync.Mutex
	cached     int
	loaded     bool
	retryAfter time.Time
	now        func() time.Time
}

// NewBestScore creates a keeper for mode. A nil store keeps the score in
// memory only; a nil logger discards warnings.
func NewBestScore(store ScoreStore, mode string, logger *log.Logger) *BestScore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BestScore{store: store, mode: mode, logger: logger, now: time.Now}
}

// Get returns the high score, loading it from the store on first use.
// After a failed load the cached value is served until loadRetryInterval
// has passed.
func (b *BestScore) Get() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loaded || b.store == nil {
		return b.cached
	}
	if b.now().Before(b.retryAfter) {
		return b.cached
	}

	ctx, cancel := context.WithTimeout(context.Background(), bestScoreTimeout)
	defer cancel()

	score, err := b.store.HighScore(ctx, b.mode)
	if err != nil {
		b.logger.Warn("could not load high score", "mode", b.mode, "error", err, "retry_in", loadRetryInterval)
		b.retryAfter = b.now().Add(loadRetryInterval)
		return b.cached
	}
	if score < 0 {
		score = 0
	}
	if score > b.cached {
		b.cached = score
	}
	b.loaded = true
	return b.cached
}

// Set records a new high score. Values not above the current one are ignored.
func (b *BestScore) Set(score int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if score <= b.cached {
		return
	}
	b.cached = score

	if b.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), bestScoreTimeout)
	defer cancel()

	if err := b.store.SetHighScore(ctx, b.mode, score); err != nil {
		b.logger.Warn("could not save high score", "mode", b.mode, "score", score, "error", err)
	}
}

// Mode returns the leaderboard this keeper writes to.
func (b *BestScore) Mode() string { return b.mode }
