// Package httpapi exposes the chat backend over HTTP: POST /chat runs one
// conversational turn, GET /health reports liveness and the selected store
// backend, GET / returns service metadata, GET /metrics serves Prometheus.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hanbyul/triago/internal/metrics"
	"github.com/hanbyul/triago/pkg/chat"
)

// Version is the service version reported by the root endpoint.
const Version = "1.0.0"

// ChatService runs one conversational turn. Implemented by chat.Orchestrator.
type ChatService interface {
	HandleTurn(ctx context.Context, req chat.Request) (*chat.Response, error)
	StoreType() string
}

// Options holds server configuration.
type Options struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// Server is the HTTP front for the chat backend.
type Server struct {
	options Options
	service ChatService
	server  *http.Server
	logger  zerolog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(options Options, service ChatService, logger zerolog.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("chat service is required")
	}
	if options.Port == 0 {
		options.Port = 8000
	}
	if options.Host == "" {
		options.Host = "0.0.0.0"
	}
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"http://localhost:3000"}
	}

	s := &Server{
		options: options,
		service: service,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     options.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.POST("/chat", s.handleChat)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", options.Host, options.Port),
		Handler: router,
	}

	return s, nil
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving requests until the server is stopped.
func (s *Server) Start() error {
	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Msg("Starting chat API server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start chat API server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down, draining in-flight requests.
func (s *Server) Stop() error {
	s.logger.Info().Msg("Shutting down chat API server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown chat API server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
