package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/presenter"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

type gameUseCase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, bool, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, message *Message, client *client) error

// client is one browser connection and the session it plays.
type client struct {
	conn      *websocket.Conn
	sessionID string
}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc

	connectionsMutex sync.Mutex
	connections      map[*websocket.Conn]struct{}
	closed           bool

	// handlersWG counts ServeHTTP calls past the upgrade; Close waits for it.
	handlersWG sync.WaitGroup
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},

		connections: make(map[*websocket.Conn]struct{}),
	}

	server.handlers = map[string]handlerFunc{
		actionGameMove:    server.handleGameMove,
		actionGameRestart: server.handleGameRestart,
		actionGameState:   server.handleGameState,
	}

	return server
}

// ServeHTTP - upgrades the request and plays one session until the client goes away.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	if !that.register(conn) {
		_ = conn.Close()
		return
	}

	defer that.handlersWG.Done()
	defer that.unregister(conn)
	defer conn.Close()

	// the request context ends with the handler, the session must be cleaned up regardless
	ctx := context.WithoutCancel(req.Context())

	session, err := that.gameUseCase.StartSession(ctx)
	if err != nil {
		log.Error("failed to start session", "error", err)
		_ = that.sendError(conn, actionConnect, "failed to start a new game")
		return
	}

	log = log.With("sessionID", session.ID)
	log.Info("WebSocket connection established")

	defer that.handleDisconnect(ctx, session.ID)

	c := &client{conn: conn, sessionID: session.ID}
	if err = that.sendSession(conn, actionConnect, session); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	if err = that.handleMessages(ctx, c); err != nil {
		log.Info("connection closed", "reason", err)
	}
}

// Close - closes every open connection and waits until their sessions are ended.
// Connections upgraded after Close are dropped right away. Safe to call more than once.
func (that *Server) Close() {
	that.connectionsMutex.Lock()
	that.closed = true

	for conn := range that.connections {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait),
		)
		_ = conn.Close()

		delete(that.connections, conn)
	}
	that.connectionsMutex.Unlock()

	that.handlersWG.Wait()
}

// handleMessages - processes messages from the client in order.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages", "sessionID", c.sessionID)

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = that.sendError(c.conn, actionError, "malformed message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendError(c.conn, actionError, fmt.Sprintf("unknown action %q", message.Action)); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			return fmt.Errorf("failed to process %s: %w", message.Action, err)
		}
	}
}

// register - tracks the connection for Close; false once the server is closed.
func (that *Server) register(conn *websocket.Conn) bool {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if that.closed {
		return false
	}

	that.connections[conn] = struct{}{}
	that.handlersWG.Add(1)

	return true
}

func (that *Server) unregister(conn *websocket.Conn) {
	that.connectionsMutex.Lock()
	delete(that.connections, conn)
	that.connectionsMutex.Unlock()
}

func (that *Server) handleDisconnect(ctx context.Context, sessionID string) {
	log := that.logger.With("method", "handleDisconnect", "sessionID", sessionID)

	if err := that.gameUseCase.EndSession(ctx, sessionID); err != nil {
		log.Error("failed to end session", "error", err)
		return
	}

	log.Info("player disconnected")
}

func (that *Server) sendSession(conn *websocket.Conn, action string, session *entity.Session) error {
	view := presenter.RenderSession(session)

	return that.sendMessage(conn, action, ResponsePayload{SessionView: &view})
}

func (that *Server) sendError(conn *websocket.Conn, action, text string) error {
	return that.sendMessage(conn, action, ResponsePayload{Error: text})
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadBytes}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
