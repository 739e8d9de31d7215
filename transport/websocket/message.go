package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-web/internal/presenter"
)

const (
	actionConnect = "connect"
	actionError   = "error"

	actionGameMove    = "game:move"
	actionGameRestart = "game:restart"
	actionGameState   = "game:state"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
}

type ResponsePayload struct {
	*presenter.SessionView
	Error string `json:"error,omitempty"`
}
