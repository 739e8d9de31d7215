package tictactoe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func play(t *testing.T, cells ...int) entity.GameState {
	t.Helper()

	state := InitialState()
	for _, cell := range cells {
		next, err := TryMove(state, cell)
		require.NoError(t, err, "move to cell %d", cell)
		state = next
	}

	return state
}

func TestInitialState(t *testing.T) {
	// When: a new game starts
	state := InitialState()

	// Then: the board is empty and X moves first
	expected := entity.GameState{
		Board:  entity.Board{e, e, e, e, e, e, e, e, e},
		Turn:   x,
		Active: true,
		Status: "Player X's turn",
	}

	require.Equal(t, expected, state)
}

func TestRestart(t *testing.T) {
	t.Run("Equals the initial state for a fresh game", func(t *testing.T) {
		assert.Equal(t, InitialState(), Restart())
	})

	t.Run("Ignores the history of a finished game", func(t *testing.T) {
		// Given: a game won by X
		finished := play(t, 0, 3, 1, 4, 2)
		require.False(t, finished.Active)

		// When: restarting
		state := Restart()

		// Then: nothing of the old game survives
		if diff := cmp.Diff(InitialState(), state); diff != "" {
			t.Errorf("restart mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestApplyMove(t *testing.T) {
	t.Run("Places the mark and switches the turn", func(t *testing.T) {
		// Given: a new game
		state := InitialState()

		// When: X plays the center
		next := ApplyMove(state, 4)

		// Then: the board holds X and it is O's turn
		expected := entity.GameState{
			Board:  entity.Board{e, e, e, e, x, e, e, e, e},
			Turn:   o,
			Active: true,
			Status: "Player O's turn",
		}

		require.Equal(t, expected, next)
	})

	t.Run("Does not touch the input snapshot", func(t *testing.T) {
		// Given: a new game
		state := InitialState()

		// When: a move is applied
		_ = ApplyMove(state, 0)

		// Then: the original board is still empty
		assert.Equal(t, InitialState(), state)
	})

	t.Run("Occupied cell returns the same state", func(t *testing.T) {
		// Given: X owns cell 0
		state := play(t, 0)

		// When: O tries to play cell 0
		next := ApplyMove(state, 0)

		// Then: the state is unchanged
		if diff := cmp.Diff(state, next); diff != "" {
			t.Errorf("rejected move changed state (-want +got):\n%s", diff)
		}
	})

	t.Run("Out of range cells return the same state", func(t *testing.T) {
		state := play(t, 4)

		for _, cell := range []int{-1, 9, 20} {
			assert.Equal(t, state, ApplyMove(state, cell), "cell %d", cell)
		}
	})

	t.Run("Turns alternate between X and O", func(t *testing.T) {
		// Given: a new game
		state := InitialState()
		expected := []entity.Mark{x, o, x, o, x}

		// When: legal moves are played one by one
		for i, cell := range []int{4, 0, 8, 2, 6} {
			mover := state.Turn
			state = ApplyMove(state, cell)

			// Then: the mover is the expected player and the cell is theirs
			assert.Equal(t, expected[i], mover)
			assert.Equal(t, mover, state.Board[cell])
			assert.Equal(t, Opponent(mover), state.Turn)
		}
	})

	t.Run("Moves change at most one empty cell", func(t *testing.T) {
		// Given: every reachable position after up to three moves
		states := []entity.GameState{InitialState()}
		for depth := 0; depth < 3; depth++ {
			var nextStates []entity.GameState
			for _, state := range states {
				for cell := -1; cell <= entity.BoardSize; cell++ {
					next := ApplyMove(state, cell)

					// Then: filled count grows by at most one
					diff := next.Board.Filled() - state.Board.Filled()
					assert.GreaterOrEqual(t, diff, 0)
					assert.LessOrEqual(t, diff, 1)

					// Then: taken cells keep their mark
					for i, mark := range state.Board {
						if mark != entity.EmptyCell {
							assert.Equal(t, mark, next.Board[i])
						}
					}

					if diff == 1 {
						nextStates = append(nextStates, next)
					}
				}
			}
			states = nextStates
		}

		assert.Len(t, states, 9*8*7)
	})
}

func TestApplyMove_Win(t *testing.T) {
	// When: X completes the top row
	state := play(t, 0, 3, 1, 4, 2)

	// Then: X wins and the game is over
	assert.Equal(t, x, state.Winner)
	assert.False(t, state.Active)
	assert.False(t, state.Draw)
	assert.Equal(t, "Player X wins!", state.Status)
}

func TestApplyMove_Draw(t *testing.T) {
	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// When: the board fills up as X O X / X O O / O X X
		state := play(t, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// Then: the game ends in a draw
		assert.True(t, state.Draw)
		assert.False(t, state.Active)
		assert.Equal(t, entity.EmptyCell, state.Winner)
		assert.Equal(t, "It's a draw!", state.Status)
	})

	t.Run("Last move completing a line is a win, not a draw", func(t *testing.T) {
		// When: the board fills up and X's last move completes the 0-4-8 diagonal
		state := play(t, 0, 1, 2, 3, 4, 5, 7, 6, 8)

		// Then: the win takes precedence over the full board
		assert.True(t, state.Board.IsFull())
		assert.False(t, state.Draw)
		assert.Equal(t, x, state.Winner)
		assert.Equal(t, "Player X wins!", state.Status)
	})
}

func TestTryMove(t *testing.T) {
	t.Run("Occupied cell", func(t *testing.T) {
		state := play(t, 0)

		next, err := TryMove(state, 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, state, next)
	})

	t.Run("Invalid cell", func(t *testing.T) {
		state := InitialState()

		_, err := TryMove(state, 9)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = TryMove(state, -1)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Move after the game finished", func(t *testing.T) {
		// Given: a game won by X
		state := play(t, 0, 3, 1, 4, 2)

		// When: O tries every cell
		for cell := -1; cell <= entity.BoardSize; cell++ {
			next, err := TryMove(state, cell)

			// Then: every attempt is rejected and the terminal state stays
			require.ErrorIs(t, err, apperror.ErrGameFinished)
			assert.Equal(t, state, next)
		}
	})

	t.Run("Move after a draw", func(t *testing.T) {
		state := play(t, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		next, err := TryMove(state, 4)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, state, next)
	})
}

func TestEvaluateStatus(t *testing.T) {
	tests := []struct {
		name     string
		board    entity.Board
		turn     entity.Mark
		expected entity.Outcome
	}{
		{
			name:     "Empty board",
			board:    entity.Board{},
			turn:     x,
			expected: entity.Outcome{Active: true, Message: "Player X's turn"},
		},
		{
			name: "Ongoing game reports the player to move",
			board: entity.Board{
				x, o, e,
				e, x, e,
				e, e, o,
			},
			turn:     x,
			expected: entity.Outcome{Active: true, Message: "Player X's turn"},
		},
		{
			name: "Column win",
			board: entity.Board{
				x, o, e,
				x, o, e,
				x, e, e,
			},
			turn:     o,
			expected: entity.Outcome{Winner: x, Message: "Player X wins!"},
		},
		{
			name: "Anti-diagonal win",
			board: entity.Board{
				x, x, o,
				e, o, e,
				o, e, x,
			},
			turn:     x,
			expected: entity.Outcome{Winner: o, Message: "Player O wins!"},
		},
		{
			name: "Draw",
			board: entity.Board{
				o, x, o,
				o, x, x,
				x, o, x,
			},
			turn:     o,
			expected: entity.Outcome{Draw: true, Message: "It's a draw!"},
		},
		{
			name: "Two winners pick the first pattern in order",
			board: entity.Board{
				o, o, o,
				x, x, x,
				e, e, e,
			},
			turn:     x,
			expected: entity.Outcome{Winner: o, Message: "Player O wins!"},
		},
		{
			name: "Earlier column wins over a later one",
			board: entity.Board{
				x, e, o,
				x, e, o,
				x, x, o,
			},
			turn:     o,
			expected: entity.Outcome{Winner: x, Message: "Player X wins!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluateStatus(tt.board, tt.turn))
		})
	}
}

func TestEvaluateStatus_IgnoresCallerPatterns(t *testing.T) {
	// Given: a caller that rewrites its copy of the patterns
	patterns := entity.WinPatterns()
	patterns[0] = [3]int{0, 1, 3}

	// When: the rewritten triple is on the board
	outcome := EvaluateStatus(entity.Board{
		x, x, e,
		x, o, o,
		e, e, e,
	}, o)

	// Then: it is not a win
	assert.Equal(t, entity.Outcome{Active: true, Message: "Player O's turn"}, outcome)
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, o, Opponent(x))
	assert.Equal(t, x, Opponent(o))
}
