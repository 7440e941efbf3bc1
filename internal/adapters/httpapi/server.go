package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"motoauto-service/internal/config"

	"github.com/rs/zerolog"
)

// Shutdowner is implemented by handlers holding long-lived connections
type Shutdowner interface {
	Shutdown()
}

type Server struct {
	httpServer *http.Server
	websocket  Shutdowner
	config     *config.Config
	logger     zerolog.Logger
}

type ServerParams struct {
	Config *config.Config
	API    *API
	// WebSocket is told to drop its clients on Stop; may be nil
	WebSocket Shutdowner
	Logger    zerolog.Logger
}

func NewServer(params ServerParams) *Server {
	httpServer := &http.Server{
		Addr:         params.Config.ServerAddress(),
		Handler:      params.API.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		websocket:  params.WebSocket,
		config:     params.Config,
		logger:     params.Logger.With().Str("component", "http_server").Logger(),
	}
}

// Start serves until the server is stopped
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the server and disconnects WebSocket clients
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")

	// Hijacked connections are not tracked by Shutdown
	if s.websocket != nil {
		s.websocket.Shutdown()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
