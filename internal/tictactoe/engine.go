package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const msgDraw = "It's a draw!"

// InitialState - returns the snapshot every game starts from.
func InitialState() entity.GameState {
	return newState(entity.Board{}, entity.PlayerX)
}

// Restart - returns a fresh game, identical to InitialState.
func Restart() entity.GameState {
	return InitialState()
}

// ApplyMove - places the current player's mark on cell and hands the turn over.
// An illegal move returns state unchanged.
func ApplyMove(state entity.GameState, cell int) entity.GameState {
	next, _ := TryMove(state, cell)

	return next
}

// TryMove - same as ApplyMove, but also reports why a move was rejected.
func TryMove(state entity.GameState, cell int) (entity.GameState, error) {
	if err := validateMove(state, cell); err != nil {
		return state, err
	}

	board := state.Board
	board[cell] = state.Turn

	return newState(board, Opponent(state.Turn)), nil
}

// EvaluateStatus - derives the outcome of board with turn as the player to move.
func EvaluateStatus(board entity.Board, turn entity.Mark) entity.Outcome {
	if winner := findWinner(board); winner != entity.EmptyCell {
		return entity.Outcome{
			Winner:  winner,
			Message: fmt.Sprintf("Player %s wins!", winner),
		}
	}

	if board.IsFull() {
		return entity.Outcome{
			Draw:    true,
			Message: msgDraw,
		}
	}

	return entity.Outcome{
		Active:  true,
		Message: fmt.Sprintf("Player %s's turn", turn),
	}
}

// Opponent - returns the other player.
func Opponent(mark entity.Mark) entity.Mark {
	if mark == entity.PlayerX {
		return entity.PlayerO
	}

	return entity.PlayerX
}

// validateMove - checks if the move is legal.
func validateMove(state entity.GameState, cell int) error {
	if !state.Active {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if state.Board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

func newState(board entity.Board, turn entity.Mark) entity.GameState {
	outcome := EvaluateStatus(board, turn)

	return entity.GameState{
		Board:  board,
		Turn:   turn,
		Active: outcome.Active,
		Winner: outcome.Winner,
		Draw:   outcome.Draw,
		Status: outcome.Message,
	}
}

// findWinner - returns the mark of the first completed pattern, EmptyCell if none.
func findWinner(board entity.Board) entity.Mark {
	for _, pattern := range entity.WinPatterns() {
		a, b, c := board[pattern[0]], board[pattern[1]], board[pattern[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}
