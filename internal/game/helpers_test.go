package game

// queueRandom returns queued values from Intn, then 0 once the queue is empty.
// Values are taken modulo n so they always address an existing cell.
type queueRandom struct {
	values []int
	calls  []int
}

func (r *queueRandom) Intn(n int) int {
	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

// memoryHighScore is a HighScoreStore backed by an int.
type memoryHighScore struct {
	best int
	sets int
}

func (m *memoryHighScore) Get() int { return m.best }

func (m *memoryHighScore) Set(score int) {
	m.best = score
	m.sets++
}

// load overwrites the session board with g.
func (s *Session) load(g Grid) {
	if err := s.board.restore(g); err != nil {
		panic(err)
	}
}
