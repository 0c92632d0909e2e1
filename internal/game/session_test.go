package game

import (
	"errors"
	"testing"
)

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Random == nil {
		opts.Random = &queueRandom{}
	}
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	return s
}

func TestNewSessionSpawnsInitialTiles(t *testing.T) {
	rng := &queueRandom{values: []int{0, 14}}
	s := newTestSession(t, Options{Random: rng})

	// First draw picks (0,0) of 16; the second picks index 14 of the remaining 15.
	want := Grid{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 2},
	}
	if got := s.Grid(); !got.Equal(want) {
		t.Errorf("initial grid:\n%v\nwant:\n%v", got, want)
	}
	if s.Status() != StatusPlaying || s.Score() != 0 {
		t.Errorf("status = %s, score = %d", s.Status(), s.Score())
	}
	if s.UndosRemaining() != DefaultUndoBudget || s.CanUndo() {
		t.Errorf("UndosRemaining() = %d, CanUndo() = %v", s.UndosRemaining(), s.CanUndo())
	}
}

func TestNewSessionInvalidDimensions(t *testing.T) {
	if _, err := NewSession(Options{Rows: -1, Random: &queueRandom{}}); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("NewSession() error = %v, want ErrInvalidDimensions", err)
	}
}

func TestSessionMoveSpawnsAfterChange(t *testing.T) {
	s := newTestSession(t, Options{})
	s.load(Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	out, err := s.Move(DirLeft)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if !out.Changed || out.ScoreDelta != 4 || out.GameOver {
		t.Errorf("Move() = %+v", out)
	}
	if out.Spawned == nil || *out.Spawned != (Cell{Row: 0, Col: 1}) {
		t.Errorf("Spawned = %v, want (0,1)", out.Spawned)
	}
	if s.Score() != 4 || s.Grid().Sum() != 6 {
		t.Errorf("score = %d, grid:\n%v", s.Score(), s.Grid())
	}
}

func TestSessionNoOpMoveStillSnapshots(t *testing.T) {
	s := newTestSession(t, Options{})
	s.load(Grid{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	out, err := s.Move(DirLeft)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if out.Changed || out.Spawned != nil {
		t.Errorf("no-op move reported %+v", out)
	}
	if snap := s.Snapshot(); snap.HistoryDepth != 1 {
		t.Errorf("HistoryDepth = %d, want 1", snap.HistoryDepth)
	}
}

func TestSessionUndoRestoresGridButNotScore(t *testing.T) {
	s := newTestSession(t, Options{})
	before := Grid{
		{2, 2, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	s.load(before)

	if _, err := s.Move(DirLeft); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	g, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if !g.Equal(before) || !s.Grid().Equal(before) {
		t.Errorf("Undo() grid:\n%v\nwant:\n%v", g, before)
	}
	if s.Score() != 4 {
		t.Errorf("score = %d, undo must not roll back the score", s.Score())
	}
	if s.UndosRemaining() != DefaultUndoBudget-1 {
		t.Errorf("UndosRemaining() = %d", s.UndosRemaining())
	}
}

func TestSessionUndoBudgetIsPerSession(t *testing.T) {
	s := newTestSession(t, Options{})

	move := func() {
		t.Helper()
		s.load(Grid{
			{2, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		})
		if _, err := s.Move(DirRight); err != nil {
			t.Fatalf("Move() error: %v", err)
		}
	}

	for i := range DefaultUndoBudget {
		move()
		if _, err := s.Undo(); err != nil {
			t.Fatalf("Undo() #%d error: %v", i+1, err)
		}
	}

	move()
	move()
	if _, err := s.Undo(); !errors.Is(err, ErrUndoUnavailable) {
		t.Errorf("sixth Undo() error = %v, want ErrUndoUnavailable", err)
	}

	s.Restart()
	move()
	if _, err := s.Undo(); err != nil {
		t.Errorf("Undo() after Restart error: %v", err)
	}
}

func TestSessionUndoWithoutHistory(t *testing.T) {
	s := newTestSession(t, Options{})
	before := s.Grid()

	if _, err := s.Undo(); !errors.Is(err, ErrUndoUnavailable) {
		t.Errorf("Undo() error = %v, want ErrUndoUnavailable", err)
	}
	if !s.Grid().Equal(before) {
		t.Error("a failed Undo must leave the grid unchanged")
	}
}

func TestSessionTerminalIsIdempotent(t *testing.T) {
	// The single empty cell becomes a 4 after the left move: no moves remain.
	s := newTestSession(t, Options{SpawnValue: 4})
	s.load(Grid{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})

	out, err := s.Move(DirLeft)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if !out.GameOver || s.Status() != StatusTerminal {
		t.Fatalf("expected terminal state, got %+v\n%v", out, s.Grid())
	}

	terminal := s.Grid()
	score := s.Score()
	for _, dir := range Directions {
		out, err := s.Move(dir)
		if err != nil {
			t.Fatalf("Move(%s) error: %v", dir, err)
		}
		if out.Changed || !out.GameOver {
			t.Errorf("Move(%s) at terminal = %+v", dir, out)
		}
	}
	if !s.Grid().Equal(terminal) || s.Score() != score {
		t.Error("moves at terminal state must not change the board")
	}
	if !s.IsGameOver() {
		t.Error("IsGameOver() = false at terminal state")
	}
}

func TestSessionUndoLeavesTerminal(t *testing.T) {
	s := newTestSession(t, Options{SpawnValue: 4})
	s.load(Grid{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})

	if out, _ := s.Move(DirLeft); !out.GameOver {
		t.Fatal("expected game over")
	}
	if _, err := s.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if s.Status() != StatusPlaying {
		t.Errorf("status after undo = %s, want %s", s.Status(), StatusPlaying)
	}
}

func TestSessionInvalidDirection(t *testing.T) {
	s := newTestSession(t, Options{})
	before := s.Grid()

	if _, err := s.Move(Direction(9)); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Move() error = %v, want ErrInvalidDirection", err)
	}
	if !s.Grid().Equal(before) || s.Snapshot().HistoryDepth != 0 {
		t.Error("an invalid direction must not change anything")
	}
}

func TestSessionHighScore(t *testing.T) {
	hs := &memoryHighScore{best: 6}
	s := newTestSession(t, Options{HighScore: hs})

	s.load(Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if _, err := s.Move(DirLeft); err != nil {
		t.Fatal(err)
	}
	if hs.sets != 0 || s.HighScore() != 6 {
		t.Errorf("score 4 must not beat 6: sets = %d, HighScore() = %d", hs.sets, s.HighScore())
	}

	s.load(Grid{
		{4, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if _, err := s.Move(DirLeft); err != nil {
		t.Fatal(err)
	}
	if hs.best != 12 || hs.sets != 1 {
		t.Errorf("high score = %d after %d sets, want 12 after 1", hs.best, hs.sets)
	}
	if s.Snapshot().HighScore != 12 {
		t.Errorf("Snapshot().HighScore = %d", s.Snapshot().HighScore)
	}
}

func TestSessionRestart(t *testing.T) {
	s := newTestSession(t, Options{})
	s.load(Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if _, err := s.Move(DirLeft); err != nil {
		t.Fatal(err)
	}

	s.Restart()
	snap := s.Snapshot()
	if snap.Score != 0 || snap.HistoryDepth != 0 || snap.Status != StatusPlaying {
		t.Errorf("Restart() left %+v", snap)
	}
	if n := len(EmptyCells(s.board)); n != 14 {
		t.Errorf("empty cells after Restart = %d, want 14", n)
	}
}

func TestSessionObservers(t *testing.T) {
	s := newTestSession(t, Options{})

	var kinds []UpdateKind
	var last Update
	s.Subscribe(ObserverFunc(func(u Update) {
		kinds = append(kinds, u.Kind)
		last = u
	}))

	s.load(Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if _, err := s.Move(DirLeft); err != nil {
		t.Fatal(err)
	}
	if last.Score != 4 || len(last.Merges) != 1 || last.Spawned == nil {
		t.Errorf("move update = %+v", last)
	}
	if !last.Grid.Equal(s.Grid()) {
		t.Error("update grid should match the session grid")
	}

	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	s.Restart()

	want := []UpdateKind{UpdateMove, UpdateUndo, UpdateNewSession}
	if len(kinds) != len(want) {
		t.Fatalf("updates = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("update %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}
