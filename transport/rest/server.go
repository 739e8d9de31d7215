package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// NewRouter - mounts the page, the JSON API and the websocket endpoint.
func NewRouter(handlers *Handlers, ws http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", handlers.PingHandler)
	mux.HandleFunc("GET /{$}", handlers.IndexHandler)
	mux.Handle("GET /ws", ws)

	mux.HandleFunc("POST /api/sessions", handlers.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", handlers.GetSession)
	mux.HandleFunc("POST /api/sessions/{id}/moves", handlers.MakeMove)
	mux.HandleFunc("POST /api/sessions/{id}/restart", handlers.Restart)
	mux.HandleFunc("DELETE /api/sessions/{id}", handlers.DeleteSession)

	return mux
}

func NewServer(logger *slog.Logger, port string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With("component", "http"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// RegisterOnShutdown - f runs when Shutdown starts; used to close hijacked websocket connections.
func (that *Server) RegisterOnShutdown(f func()) {
	that.srv.RegisterOnShutdown(f)
}

// Start - blocks until the server stops. A graceful shutdown is not an error.
func (that *Server) Start() error {
	that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
