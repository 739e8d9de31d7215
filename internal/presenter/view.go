// Package presenter turns game snapshots into what a client draws: nine cell
// glyphs and a status line.
package presenter

import "github.com/rocketscienceinc/tictactoe-web/internal/entity"

type View struct {
	Cells      [entity.BoardSize]string `json:"cells"`
	Status     string                   `json:"status"`
	Active     bool                     `json:"active"`
	PlayerTurn string                   `json:"player_turn"`
	Winner     string                   `json:"winner,omitempty"`
	Draw       bool                     `json:"draw"`
}

func Render(state entity.GameState) View {
	return View{
		Cells:      state.Board.Glyphs(),
		Status:     state.Status,
		Active:     state.Active,
		PlayerTurn: string(state.Turn),
		Winner:     string(state.Winner),
		Draw:       state.Draw,
	}
}

// SessionView is the reply both transports send for a session.
type SessionView struct {
	SessionID string `json:"session_id"`
	Game      View   `json:"game"`
	Accepted  *bool  `json:"accepted,omitempty"`
}

func RenderSession(session *entity.Session) SessionView {
	return SessionView{
		SessionID: session.ID,
		Game:      Render(session.State),
	}
}

// RenderMove - like RenderSession, but also tells whether the move was taken.
func RenderMove(session *entity.Session, accepted bool) SessionView {
	view := RenderSession(session)
	view.Accepted = &accepted

	return view
}
