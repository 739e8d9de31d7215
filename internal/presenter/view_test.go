package presenter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

func TestRender(t *testing.T) {
	t.Run("Initial state", func(t *testing.T) {
		view := Render(tictactoe.InitialState())

		assert.Equal(t, View{
			Cells:      [entity.BoardSize]string{},
			Status:     "Player X's turn",
			Active:     true,
			PlayerTurn: "X",
		}, view)
	})

	t.Run("Won game", func(t *testing.T) {
		// Given: X completed the top row
		state := tictactoe.InitialState()
		for _, cell := range []int{0, 3, 1, 4, 2} {
			state = tictactoe.ApplyMove(state, cell)
		}

		// When: rendering it
		view := Render(state)

		// Then: glyphs and status come from the snapshot
		assert.Equal(t, [entity.BoardSize]string{"X", "X", "X", "O", "O", "", "", "", ""}, view.Cells)
		assert.Equal(t, "Player X wins!", view.Status)
		assert.Equal(t, "X", view.Winner)
		assert.False(t, view.Active)
	})
}

func TestRenderMove(t *testing.T) {
	// Given: a rejected move on a fresh session
	session := &entity.Session{ID: "s1", State: tictactoe.InitialState()}

	// When: encoding the reply
	raw, err := json.Marshal(RenderMove(session, false))
	require.NoError(t, err)

	// Then: the accepted flag is present even when false
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["accepted"])
	assert.Equal(t, "s1", decoded["session_id"])

	// And: plain session replies omit it
	raw, err = json.Marshal(RenderSession(session))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "accepted")
}
