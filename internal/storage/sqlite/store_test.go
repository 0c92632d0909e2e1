package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/merge2048/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, e := range []storage.ScoreEntry{
		{Mode: "4x4", Player: "ann", Score: 100, MaxTile: 16},
		{Mode: "4x4", Player: "bob", Score: 50, MaxTile: 8},
		{Mode: "4x4", Player: "ann", Score: 200, MaxTile: 32},
		{Mode: "5x5", Player: "cid", Score: 500, MaxTile: 64},
	} {
		if _, err := store.SaveScore(ctx, e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(ctx, "4x4", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Player != "ann" || scores[0].MaxTile != 32 || scores[0].Mode != "4x4" {
		t.Errorf("Top entry = %+v", scores[0])
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}

	other, err := store.TopScores(ctx, "5x5", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 score for 5x5, got %d", len(other))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := range 12 {
		store.SaveScore(ctx, storage.ScoreEntry{Mode: "4x4", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores(ctx, "4x4", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 || scores[0].Score != 1200 || scores[2].Score != 1000 {
		t.Errorf("TopScores(3) = %v", scores)
	}

	scores, _ = store.TopScores(ctx, "4x4", 0)
	if len(scores) != storage.DefaultTopLimit {
		t.Errorf("Expected default limit of %d, got %d", storage.DefaultTopLimit, len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	high, err := store.HighScore(ctx, "4x4")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty mode, got %d", high)
	}

	if err := store.SetHighScore(ctx, "4x4", 300); err != nil {
		t.Fatalf("SetHighScore() failed: %v", err)
	}
	if err := store.SetHighScore(ctx, "4x4", 120); err != nil {
		t.Fatalf("SetHighScore() failed: %v", err)
	}

	high, _ = store.HighScore(ctx, "4x4")
	if high != 300 {
		t.Errorf("SetHighScore must not lower the best score, got %d", high)
	}

	store.SaveScore(ctx, storage.ScoreEntry{Mode: "4x4", Score: 450})
	high, _ = store.HighScore(ctx, "4x4")
	if high != 450 {
		t.Errorf("Expected recorded game to count, got %d", high)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx, "4x4")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Stats() for empty mode = %+v", stats)
	}

	store.SaveScore(ctx, storage.ScoreEntry{Mode: "4x4", Score: 100})
	store.SaveScore(ctx, storage.ScoreEntry{Mode: "4x4", Score: 300})

	stats, err = store.Stats(ctx, "4x4")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalScore != 400 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not populated")
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.SaveScore(ctx, storage.ScoreEntry{Mode: "4x4", Score: 100})
	store.SetHighScore(ctx, "4x4", 400)
	store.SaveScore(ctx, storage.ScoreEntry{Mode: "3x3", Score: 300})

	if err := store.ClearScores(ctx, "4x4"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores(ctx, "4x4", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if high, _ := store.HighScore(ctx, "4x4"); high != 0 {
		t.Errorf("Expected high score reset, got %d", high)
	}
	if scores, _ := store.TopScores(ctx, "3x3", 10); len(scores) != 1 {
		t.Error("Other modes should not be affected by clearing")
	}
}

func TestStoreBestScoreKeeper(t *testing.T) {
	store := openTestStore(t)
	store.SetHighScore(context.Background(), "4x4", 64)

	best := storage.NewBestScore(store, "4x4", nil)
	if got := best.Get(); got != 64 {
		t.Fatalf("Get() = %d, want 64", got)
	}

	best.Set(128)

	reopened := storage.NewBestScore(store, "4x4", nil)
	if got := reopened.Get(); got != 128 {
		t.Errorf("persisted high score = %d, want 128", got)
	}
}
