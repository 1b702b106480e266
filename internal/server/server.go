package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	server *http.Server
	logger zerolog.Logger
}

// New builds the HTTP server around a root router that carries the
// middleware chain; app routes are mounted after the chain because chi
// rejects Use once routes are registered.
func New(cfg Config, router chi.Router, logger zerolog.Logger, middlewares ...func(http.Handler) http.Handler) *Server {
	root := chi.NewRouter()
	root.Use(middleware.RequestID)
	root.Use(middleware.RealIP)
	root.Use(middleware.StripSlashes)
	root.Use(middleware.CleanPath)

	for _, mw := range middlewares {
		if mw != nil {
			root.Use(mw)
		}
	}

	root.Mount("/", router)

	return &Server{
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      root,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server")
	return s.server.Shutdown(ctx)
}
