package game

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every valid direction.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses "up", "down", "left" or "right" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// MergeEvent records two tiles combining into one.
// Row and Col are the final position of the merged tile.
type MergeEvent struct {
	Row   int
	Col   int
	Value int
}

// MoveResult is the outcome of applying one direction to a board.
type MoveResult struct {
	Changed    bool
	Merges     []MergeEvent
	ScoreDelta int
}

// SlideLine slides a line toward index 0.
// It returns the new line (same length as the input), the indexes in the new
// line that hold merged tiles, and the score gained. Each tile merges at most once.
func SlideLine(line []int) (out []int, merged []int, score int) {
	compacted := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			compacted = append(compacted, v)
		}
	}

	// A merge leaves a zero placeholder behind, so the new tile can't merge again.
	isMerge := make([]bool, len(compacted))
	for i := 0; i < len(compacted)-1; i++ {
		if compacted[i] != 0 && compacted[i] == compacted[i+1] {
			compacted[i] *= 2
			compacted[i+1] = 0
			isMerge[i] = true
			score += compacted[i]
		}
	}

	out = make([]int, len(line))
	pos := 0
	for i, v := range compacted {
		if v == 0 {
			continue
		}
		out[pos] = v
		if isMerge[i] {
			merged = append(merged, pos)
		}
		pos++
	}
	return out, merged, score
}

// Apply slides every row (left/right) or column (up/down) of the board in the
// given direction, merging equal neighbors and adding the gains to the score.
func Apply(b *Board, dir Direction) (MoveResult, error) {
	if !dir.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}

	before := b.Grid()
	var result MoveResult

	lines, length := b.rows, b.cols
	if dir == DirUp || dir == DirDown {
		lines, length = b.cols, b.rows
	}

	line := make([]int, length)
	for l := range lines {
		for i := range length {
			cell := lineCell(dir, l, i, length)
			line[i] = b.cells[cell.Row][cell.Col]
		}

		out, merged, score := SlideLine(line)

		for i, v := range out {
			cell := lineCell(dir, l, i, length)
			if err := b.Set(cell.Row, cell.Col, v); err != nil {
				return result, err
			}
		}
		for _, idx := range merged {
			cell := lineCell(dir, l, idx, length)
			result.Merges = append(result.Merges, MergeEvent{Row: cell.Row, Col: cell.Col, Value: out[idx]})
		}
		result.ScoreDelta += score
	}

	if err := b.AddScore(result.ScoreDelta); err != nil {
		return result, err
	}
	result.Changed = !before.Equal(b.cells)
	return result, nil
}

// lineCell maps index i of line l, counted in slide order, to a grid cell.
// Right and down lines are read back to front so every slide heads to index 0.
func lineCell(dir Direction, l, i, length int) Cell {
	switch dir {
	case DirRight:
		return Cell{Row: l, Col: length - 1 - i}
	case DirUp:
		return Cell{Row: i, Col: l}
	case DirDown:
		return Cell{Row: length - 1 - i, Col: l}
	default:
		return Cell{Row: l, Col: i}
	}
}
