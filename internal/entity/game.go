package entity

// Mark is the content of a board cell. Its string value is the glyph a presenter shows.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// BoardSize is the number of cells on a 3x3 board.
const BoardSize = 9

// winPatterns lists the index triples that end the game, in evaluation order:
// rows top-to-bottom, columns left-to-right, then both diagonals.
var winPatterns = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinPatterns returns a copy of the winning index triples in evaluation order.
func WinPatterns() [8][3]int {
	return winPatterns
}

// Board holds the cells in row-major order.
type Board [BoardSize]Mark

// Glyphs returns the text of every cell, '' for an empty one.
func (that Board) Glyphs() [BoardSize]string {
	var glyphs [BoardSize]string
	for i, cell := range that {
		glyphs[i] = string(cell)
	}

	return glyphs
}

// IsFull reports whether no cell is empty.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Filled returns the number of non-empty cells.
func (that Board) Filled() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}

	return count
}

// GameState is an immutable snapshot of a game. Winner, Draw and Status are
// derived from Board and Turn by the engine and are never set on their own.
type GameState struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"player_turn"`
	Active bool   `json:"active"`
	Winner Mark   `json:"winner,omitempty"`
	Draw   bool   `json:"draw"`
	Status string `json:"status"`
}

// IsFinished reports whether the game reached a win or a draw.
func (that GameState) IsFinished() bool {
	return !that.Active
}

// Outcome is the result of evaluating a board.
type Outcome struct {
	Winner  Mark
	Draw    bool
	Active  bool
	Message string
}
