// Package httpapi exposes the credential lifecycle over HTTP/JSON. It owns
// transport concerns only: routing, body decoding, bearer extraction, CORS
// filtering, and translation of typed service failures into status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vkarpov/authkeeper/internal/logging"
	"github.com/vkarpov/authkeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address        string
	logger         logging.Logger
	users          *services.UserService
	allowedOrigins []string
}

func NewHTTPServer(address string, l logging.Logger, us *services.UserService, allowedOrigins []string) *HTTPServer {
	return &HTTPServer{
		address:        address,
		logger:         l.With("module", "http_server"),
		users:          us,
		allowedOrigins: allowedOrigins,
	}
}

// Handler builds the full middleware-wrapped route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("PUT /auth/change-password", s.handleChangePassword)
	mux.HandleFunc("DELETE /auth/delete-account", s.handleDeleteAccount)
	mux.HandleFunc("GET /ping", s.handlePing)

	return s.corsMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
