package game

import (
	"math/rand"
	"time"
)

// HighScoreStore keeps the best score across sessions.
type HighScoreStore interface {
	Get() int
	Set(score int)
}

// Options configures a Session. Zero values select the defaults; a negative
// InitialTiles or UndoBudget means none.
type Options struct {
	Rows            int
	Cols            int
	SpawnValue      int
	InitialTiles    int
	HistoryCapacity int
	UndoBudget      int

	// Random drives tile placement. Defaults to a time-seeded math/rand source.
	Random Random

	// HighScore is consulted and updated after every move that gains points.
	HighScore HighScoreStore
}

func (o *Options) applyDefaults() {
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Cols == 0 {
		o.Cols = DefaultColumns
	}
	if o.SpawnValue == 0 {
		o.SpawnValue = BaseTileValue
	}
	if o.InitialTiles == 0 {
		o.InitialTiles = 2
	}
	if o.HistoryCapacity == 0 {
		o.HistoryCapacity = DefaultHistoryCapacity
	}
	if o.UndoBudget == 0 {
		o.UndoBudget = DefaultUndoBudget
	}
	if o.Random == nil {
		o.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// MoveOutcome is returned by Session.Move.
type MoveOutcome struct {
	Changed    bool
	Merges     []MergeEvent
	ScoreDelta int
	Spawned    *Cell
	GameOver   bool
}

// Session is one game from start to restart. It isn't safe for concurrent
// use; callers apply one move at a time.
type Session struct {
	opts      Options
	board     *Board
	spawner   *Spawner
	history   *History
	status    Status
	observers []Observer
}

// NewSession creates a session with an initialized board and the initial
// tiles already spawned.
func NewSession(opts Options) (*Session, error) {
	opts.applyDefaults()

	board, err := NewBoard(opts.Rows, opts.Cols)
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:    opts,
		board:   board,
		spawner: NewSpawner(opts.Random, opts.SpawnValue),
		history: NewHistory(opts.HistoryCapacity, opts.UndoBudget),
	}
	s.start()
	return s, nil
}

// start spawns the opening tiles on a freshly initialized board.
func (s *Session) start() {
	s.history.Reset()
	s.status = StatusPlaying
	for range s.opts.InitialTiles {
		s.spawner.Spawn(s.board)
	}
	if IsGameOver(s.board) {
		s.status = StatusTerminal
	}
	s.notify(Update{Kind: UpdateNewSession})
}

// Restart begins a new session with the same dimensions.
// Observers stay subscribed.
func (s *Session) Restart() {
	// Dimensions were validated by NewSession.
	_ = s.board.Initialize(s.opts.Rows, s.opts.Cols)
	s.start()
}

// Move snapshots the grid, slides it in dir and, if anything changed, spawns
// a tile and checks for game over. The snapshot is taken even when the move
// turns out to be a no-op.
func (s *Session) Move(dir Direction) (MoveOutcome, error) {
	if !dir.Valid() {
		return MoveOutcome{}, ErrInvalidDirection
	}

	s.history.Push(s.board.cells)

	res, err := Apply(s.board, dir)
	if err != nil {
		return MoveOutcome{}, err
	}

	out := MoveOutcome{
		Changed:    res.Changed,
		Merges:     res.Merges,
		ScoreDelta: res.ScoreDelta,
	}

	if res.Changed {
		if cell, ok := s.spawner.Spawn(s.board); ok {
			out.Spawned = &cell
		}
		if IsGameOver(s.board) {
			s.status = StatusTerminal
		}
	}
	out.GameOver = s.status == StatusTerminal

	if res.ScoreDelta > 0 && s.opts.HighScore != nil {
		if score := s.board.Score(); score > s.opts.HighScore.Get() {
			s.opts.HighScore.Set(score)
		}
	}

	s.notify(Update{
		Kind:    UpdateMove,
		Merges:  res.Merges,
		Spawned: out.Spawned,
	})
	return out, nil
}

// Undo restores the most recent snapshot. The score is not rolled back.
func (s *Session) Undo() (Grid, error) {
	snapshot, err := s.history.Undo()
	if err != nil {
		return nil, err
	}
	if err := s.board.restore(snapshot); err != nil {
		return nil, err
	}

	s.status = StatusPlaying
	if IsGameOver(s.board) {
		s.status = StatusTerminal
	}

	s.notify(Update{Kind: UpdateUndo})
	return s.board.Grid(), nil
}

// IsGameOver reports whether the current board has no legal move.
func (s *Session) IsGameOver() bool {
	return IsGameOver(s.board)
}

// Status returns the session state.
func (s *Session) Status() Status { return s.status }

// Score returns the current score.
func (s *Session) Score() int { return s.board.Score() }

// HighScore returns the best known score, including the current one.
func (s *Session) HighScore() int {
	best := 0
	if s.opts.HighScore != nil {
		best = s.opts.HighScore.Get()
	}
	if score := s.board.Score(); score > best {
		best = score
	}
	return best
}

// Grid returns a copy of the current grid.
func (s *Session) Grid() Grid { return s.board.Grid() }

// Rows returns the number of rows.
func (s *Session) Rows() int { return s.opts.Rows }

// Cols returns the number of columns.
func (s *Session) Cols() int { return s.opts.Cols }

// UndosRemaining returns how many undos the session budget still allows.
func (s *Session) UndosRemaining() int { return s.history.Remaining() }

// CanUndo reports whether Undo would succeed right now.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// Snapshot captures the session state for renderers.
type Snapshot struct {
	Grid           Grid
	Score          int
	HighScore      int
	MaxTile        int
	Status         Status
	UndosRemaining int
	HistoryDepth   int
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Grid:           s.board.Grid(),
		Score:          s.board.Score(),
		HighScore:      s.HighScore(),
		MaxTile:        MaxTile(s.board),
		Status:         s.status,
		UndosRemaining: s.history.Remaining(),
		HistoryDepth:   s.history.Len(),
	}
}
