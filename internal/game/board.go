// Package game implements the sliding-tile merge puzzle engine: the board,
// the slide/merge algorithm, tile spawning, bounded undo history and
// terminal-state detection. It has no I/O and no timers; callers serialize
// moves and own presentation.
package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Default board settings.
const (
	DefaultRows    = 4
	DefaultColumns = 4
	BaseTileValue  = 2
)

// Grid is a rows x columns matrix of tile values. Zero means empty.
type Grid [][]int

// NewGrid returns an all-zero grid.
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]int, cols)
	}
	return g
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]int(nil), row...)
	}
	return out
}

// Equal reports whether both grids have the same shape and values.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	total := 0
	for _, row := range g {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// String renders the grid one row per line, e.g. "2 0 0 4".
func (g Grid) String() string {
	var sb strings.Builder
	for r, row := range g {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}

// IsTileValue reports whether v may be stored in a cell.
func IsTileValue(v int) bool {
	return v == 0 || (v >= 2 && v&(v-1) == 0)
}

// Cell is a grid coordinate.
type Cell struct {
	Row int
	Col int
}

// Board owns the grid and the running score.
type Board struct {
	rows  int
	cols  int
	cells Grid
	score int
}

// NewBoard creates an empty board with a zero score.
func NewBoard(rows, cols int) (*Board, error) {
	b := &Board{}
	if err := b.Initialize(rows, cols); err != nil {
		return nil, err
	}
	return b, nil
}

// Initialize resets the grid to zeros and the score to zero.
func (b *Board) Initialize(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	b.rows = rows
	b.cols = cols
	b.cells = NewGrid(rows, cols)
	b.score = 0
	return nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// Score returns the running score.
func (b *Board) Score() int { return b.score }

// Get returns the value at (row, col), or 0 outside the grid.
func (b *Board) Get(row, col int) int {
	if !b.inBounds(row, col) {
		return 0
	}
	return b.cells[row][col]
}

// Set writes a tile value. The value must be 0 or a power of two >= 2.
func (b *Board) Set(row, col, value int) error {
	if !b.inBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	if !IsTileValue(value) {
		return fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTileValue, value, row, col)
	}
	b.cells[row][col] = value
	return nil
}

// AddScore increases the score by delta.
func (b *Board) AddScore(delta int) error {
	if delta < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeScore, delta)
	}
	b.score += delta
	return nil
}

// Grid returns a deep copy of the current grid.
func (b *Board) Grid() Grid {
	return b.cells.Clone()
}

// restore replaces the grid with a copy of g. The score is left alone.
func (b *Board) restore(g Grid) error {
	if len(g) != b.rows {
		return fmt.Errorf("%w: snapshot has %d rows, board has %d", ErrInvalidDimensions, len(g), b.rows)
	}
	for r, row := range g {
		if len(row) != b.cols {
			return fmt.Errorf("%w: snapshot row %d has %d columns, board has %d", ErrInvalidDimensions, r, len(row), b.cols)
		}
		for c, v := range row {
			if !IsTileValue(v) {
				return fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTileValue, v, r, c)
			}
		}
	}
	b.cells = g.Clone()
	return nil
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// MaxTile returns the highest tile value on the board.
func MaxTile(b *Board) int {
	maxVal := 0
	for _, row := range b.cells {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}
