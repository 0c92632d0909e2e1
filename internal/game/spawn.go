package game

// Random is the source of randomness used for spawning.
// *math/rand.Rand satisfies it.
type Random interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int
}

// Spawner places new tiles in empty cells.
type Spawner struct {
	rng   Random
	value int
}

// NewSpawner creates a spawner that places tiles of the given value.
// A value that isn't a valid tile falls back to BaseTileValue.
func NewSpawner(rng Random, value int) *Spawner {
	if value == 0 || !IsTileValue(value) {
		value = BaseTileValue
	}
	return &Spawner{rng: rng, value: value}
}

// Value returns the value of spawned tiles.
func (s *Spawner) Value() int { return s.value }

// Spawn sets a uniformly chosen empty cell to the spawn value.
// Returns false, and leaves the board alone, when there is no empty cell.
func (s *Spawner) Spawn(b *Board) (Cell, bool) {
	empty := EmptyCells(b)
	if len(empty) == 0 {
		return Cell{}, false
	}

	cell := empty[s.rng.Intn(len(empty))]
	b.cells[cell.Row][cell.Col] = s.value
	return cell, true
}

// EmptyCells returns the coordinates of all empty cells in row-major order.
func EmptyCells(b *Board) []Cell {
	var cells []Cell
	for r, row := range b.cells {
		for c, v := range row {
			if v == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}
