package game

// Default history limits.
const (
	DefaultHistoryCapacity = 5
	DefaultUndoBudget      = 5
)

// History is a bounded stack of grid snapshots plus a lifetime undo budget.
// The budget counts successful undos over the whole session and is independent
// of how many snapshots are currently stored.
type History struct {
	snapshots []Grid
	capacity  int
	budget    int
	used      int
}

// NewHistory creates a history holding at most capacity snapshots and allowing
// budget undos per session.
func NewHistory(capacity, budget int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	if budget < 0 {
		budget = 0
	}
	return &History{
		snapshots: make([]Grid, 0, capacity),
		capacity:  capacity,
		budget:    budget,
	}
}

// Push records a copy of g, evicting the oldest snapshot when full.
func (h *History) Push(g Grid) {
	if len(h.snapshots) >= h.capacity {
		h.snapshots[0] = nil
		h.snapshots = h.snapshots[1:]
	}
	h.snapshots = append(h.snapshots, g.Clone())
}

// Undo pops the most recent snapshot and charges it to the budget.
func (h *History) Undo() (Grid, error) {
	if !h.CanUndo() {
		return nil, ErrUndoUnavailable
	}
	last := h.snapshots[len(h.snapshots)-1]
	h.snapshots[len(h.snapshots)-1] = nil
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	h.used++
	return last, nil
}

// CanUndo reports whether an undo would succeed.
func (h *History) CanUndo() bool {
	return h.used < h.budget && len(h.snapshots) > 0
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Capacity returns the maximum number of stored snapshots.
func (h *History) Capacity() int { return h.capacity }

// Used returns how many undos were performed this session.
func (h *History) Used() int { return h.used }

// Remaining returns how many undos the budget still allows.
func (h *History) Remaining() int { return h.budget - h.used }

// Reset drops all snapshots and restores the full budget.
func (h *History) Reset() {
	h.snapshots = h.snapshots[:0]
	h.used = 0
}
