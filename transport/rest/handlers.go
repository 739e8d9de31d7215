package rest

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/presenter"
)

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

type gameUseCase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, bool, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

// maxMoveBodySize caps the move request body; a valid one is a few bytes.
const maxMoveBodySize = 1024

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func NewHandlers(logger *slog.Logger, gameUseCase gameUseCase) *Handlers {
	return &Handlers{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
	}
}

// IndexHandler - serves the page that renders the board and forwards clicks over /ws.
func (that *Handlers) IndexHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := indexTmpl.Execute(w, struct{ WebSocketPath string }{WebSocketPath: "/ws"}); err != nil {
		that.logger.Error("failed to render index page", "error", err)
	}
}

func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.StartSession(r.Context())
	if err != nil {
		that.writeError(w, "CreateSession", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, presenter.RenderSession(session))
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "GetSession", err)
		return
	}

	that.writeJSON(w, http.StatusOK, presenter.RenderSession(session))
}

// MakeMove - a rejected move still answers 200, with accepted set to false.
func (that *Handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMoveBodySize)

	var req moveRequest
	err := json.NewDecoder(r.Body).Decode(&req)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		that.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return
	}

	if err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": <0-8>}"})
		return
	}

	session, accepted, err := that.gameUseCase.MakeMove(r.Context(), r.PathValue("id"), *req.Cell)
	if err != nil {
		that.writeError(w, "MakeMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, presenter.RenderMove(session, accepted))
}

func (that *Handlers) Restart(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.Restart(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "Restart", err)
		return
	}

	that.writeJSON(w, http.StatusOK, presenter.RenderSession(session))
}

func (that *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.EndSession(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "DeleteSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) writeError(w http.ResponseWriter, method string, err error) {
	if errors.Is(err, apperror.ErrSessionNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
		return
	}

	that.logger.Error("request failed", "method", method, "error", err)
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
