package game

// UpdateKind says what produced an Update.
type UpdateKind string

const (
	UpdateNewSession UpdateKind = "new_session"
	UpdateMove       UpdateKind = "move"
	UpdateUndo       UpdateKind = "undo"
)

// Update is delivered to observers after the session state changes.
type Update struct {
	Kind     UpdateKind
	Grid     Grid
	Score    int
	Merges   []MergeEvent
	Spawned  *Cell
	GameOver bool
}

// Observer receives session updates, e.g. a renderer or a sound player.
type Observer interface {
	OnUpdate(u Update)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(u Update)

// OnUpdate calls f(u).
func (f ObserverFunc) OnUpdate(u Update) { f(u) }

// Subscribe registers an observer. Observers are called synchronously in
// subscription order.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// notify fills in the board fields and fans the update out.
func (s *Session) notify(u Update) {
	if len(s.observers) == 0 {
		return
	}
	u.Grid = s.board.Grid()
	u.Score = s.board.Score()
	u.GameOver = s.status == StatusTerminal
	for _, o := range s.observers {
		o.OnUpdate(u)
	}
}
