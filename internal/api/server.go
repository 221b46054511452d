package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trendscope/analyzer/internal/logger"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// Server wraps the HTTP server with graceful shutdown support.
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger logger.Logger
}

// NewServer builds a gin engine with the standard middleware chain and
// wraps it in an http.Server listening on the given port.
func NewServer(port int, debug bool, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(RecoveryMiddleware(log))
	engine.Use(LoggerMiddleware(log))

	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      engine,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		logger: log,
	}
}

// Engine exposes the underlying router for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("http server starting", logger.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// StartAsync runs the server in a goroutine and reports startup errors
// on the returned channel.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()
	return errCh
}

// Shutdown stops the server gracefully, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
