package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/presenter"
)

func (that *Server) handleGameMove(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameMove", "sessionID", c.sessionID)

	var payloadReq RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			log.Warn("failed to unmarshal payload", "error", err)
			return that.sendError(c.conn, msg.Action, "malformed payload")
		}
	}

	if payloadReq.Cell == nil {
		log.Warn("cell is missing in payload")
		return that.sendError(c.conn, msg.Action, "cell is required")
	}

	session, accepted, err := that.gameUseCase.MakeMove(ctx, c.sessionID, *payloadReq.Cell)
	if err != nil {
		log.Error("failed to make move", "error", err)
		return that.sendError(c.conn, msg.Action, "failed to make move")
	}

	view := presenter.RenderMove(session, accepted)
	if err = that.sendMessage(c.conn, msg.Action, ResponsePayload{SessionView: &view}); err != nil {
		return fmt.Errorf("failed to send move result: %w", err)
	}

	log.Debug("move processed", "cell", *payloadReq.Cell, "accepted", accepted)

	return nil
}

func (that *Server) handleGameRestart(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameRestart", "sessionID", c.sessionID)

	session, err := that.gameUseCase.Restart(ctx, c.sessionID)
	if err != nil {
		log.Error("failed to restart game", "error", err)
		return that.sendError(c.conn, msg.Action, "failed to restart game")
	}

	return that.sendSession(c.conn, msg.Action, session)
}

func (that *Server) handleGameState(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameState", "sessionID", c.sessionID)

	session, err := that.gameUseCase.GetSession(ctx, c.sessionID)
	if err != nil {
		log.Error("failed to get game", "error", err)
		return that.sendError(c.conn, msg.Action, "failed to get game")
	}

	return that.sendSession(c.conn, msg.Action, session)
}
