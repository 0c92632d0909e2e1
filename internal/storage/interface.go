// Package storage defines score persistence for merge2048 and the
// high-score keeper the game session reads and updates.
package storage

import (
	"context"
	"fmt"
	"time"
)

// DefaultTopLimit is used when a non-positive limit is passed to TopScores.
const DefaultTopLimit = 10

// ScoreEntry is one finished game.
type ScoreEntry struct {
	ID        int64
	Mode      string // board dimensions, e.g. "4x4"
	Player    string
	Score     int
	MaxTile   int
	CreatedAt time.Time
}

// Stats contains aggregated statistics for one mode.
type Stats struct {
	Mode       string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// ScoreStore persists finished games and the best score per mode.
type ScoreStore interface {
	// SaveScore records a finished game and returns its ID.
	SaveScore(ctx context.Context, entry ScoreEntry) (int64, error)
	// TopScores returns up to limit entries for mode, best first.
	TopScores(ctx context.Context, mode string, limit int) ([]ScoreEntry, error)
	// HighScore returns the best score for mode, or 0 when none is stored.
	HighScore(ctx context.Context, mode string) (int, error)
	// SetHighScore raises the best score for mode. Lower values are ignored.
	SetHighScore(ctx context.Context, mode string, score int) error
	// Stats aggregates the recorded games for mode.
	Stats(ctx context.Context, mode string) (Stats, error)
	// ClearScores deletes the recorded games and best score for mode.
	ClearScores(ctx context.Context, mode string) error
	Close() error
}

// Mode names the leaderboard for a board size.
func Mode(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}
