package game

// Status is the session-level state.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusTerminal Status = "terminal"
)

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(b *Board) bool {
	for _, row := range b.cells {
		for _, v := range row {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any two adjacent nonzero tiles are equal.
func HasPossibleMerge(b *Board) bool {
	for r := range b.rows {
		for c := range b.cols {
			v := b.cells[r][c]
			if v == 0 {
				continue
			}
			if c < b.cols-1 && b.cells[r][c+1] == v {
				return true
			}
			if r < b.rows-1 && b.cells[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

// IsGameOver returns true if no move can change the board.
func IsGameOver(b *Board) bool {
	return !HasEmptyCell(b) && !HasPossibleMerge(b)
}
