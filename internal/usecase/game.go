package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

type GameUseCase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, bool, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)

	EndSession(ctx context.Context, id string) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameUseCase struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	locks       *sessionLocks
}

func NewGameUseCase(logger *slog.Logger, sessionRepo sessionRepo) GameUseCase {
	return &gameUseCase{
		logger:      logger.With("component", "game_usecase"),
		sessionRepo: sessionRepo,
		locks:       newSessionLocks(),
	}
}

func (that *gameUseCase) StartSession(ctx context.Context) (*entity.Session, error) {
	session := &entity.Session{
		ID:    uuid.NewString(),
		State: tictactoe.InitialState(),
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Debug("session started", "sessionID", session.ID)

	return session, nil
}

func (that *gameUseCase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MakeMove - applies a move to the session's game. A rejected move is not an
// error: the unchanged session is returned with accepted set to false.
// Moves on one session are applied one at a time.
func (that *gameUseCase) MakeMove(ctx context.Context, id string, cell int) (*entity.Session, bool, error) {
	log := that.logger.With("method", "MakeMove", "sessionID", id, "cell", cell)

	unlock := that.locks.Lock(id)
	defer unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, false, err
	}

	state, err := tictactoe.TryMove(session.State, cell)
	if err != nil {
		log.Debug("move rejected", "reason", err)

		return session, false, nil
	}

	session.State = state
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, false, fmt.Errorf("failed to update session: %w", err)
	}

	if state.IsFinished() {
		log.Info("game finished", "winner", state.Winner, "draw", state.Draw)
	}

	return session, true, nil
}

func (that *gameUseCase) Restart(ctx context.Context, id string) (*entity.Session, error) {
	unlock := that.locks.Lock(id)
	defer unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.State = tictactoe.Restart()
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to restart session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) EndSession(ctx context.Context, id string) error {
	err := that.sessionRepo.DeleteByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return apperror.ErrSessionNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Debug("session ended", "sessionID", id)

	return nil
}
