package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rein-coach/internal/common/logger"
)

// Server serves the API until Shutdown is called.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

func NewServer(address string, engine *gin.Engine, log logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              address,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start blocks serving requests. It returns nil after a clean Shutdown.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down", nil)
	return s.http.Shutdown(ctx)
}
