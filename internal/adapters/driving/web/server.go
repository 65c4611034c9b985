// Package web serves the chat API over HTTP using echo.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// ErrMissingChatService is returned when the server is built without a chat service.
var ErrMissingChatService = errors.New("web: chat service is required")

// shutdownTimeout bounds graceful shutdown once the run context ends.
const shutdownTimeout = 5 * time.Second

// Config holds the HTTP surface options.
type Config struct {
	// AllowedOrigins feeds the CORS middleware. Empty allows any origin.
	AllowedOrigins []string
}

// Server is the HTTP front-end.
type Server struct {
	echo      *echo.Echo
	chat      driving.ChatService
	retrieval driving.RetrievalService
	knowledge driving.KnowledgeService
	now       func() time.Time
}

// NewServer wires routes and middleware. Retrieval and knowledge are optional;
// without them /api/search is not registered and /health reports not ready.
func NewServer(
	chat driving.ChatService,
	retrieval driving.RetrievalService,
	knowledge driving.KnowledgeService,
	cfg Config,
) (*Server, error) {
	if chat == nil {
		return nil, ErrMissingChatService
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		echo:      e,
		chat:      chat,
		retrieval: retrieval,
		knowledge: knowledge,
		now:       time.Now,
	}
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/chat", s.handleChat)
	s.echo.POST("/keep-alive", s.handleKeepAlive)

	if s.retrieval != nil {
		api := s.echo.Group("/api")
		api.GET("/search", s.handleSearch)
	}
}

// ServeHTTP lets the server be mounted or exercised with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// errorHandler keeps every failure in JSON, including unknown routes.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	msg := "Internal server error"
	switch code {
	case http.StatusNotFound:
		msg = "Endpoint not found"
	case http.StatusMethodNotAllowed:
		msg = "Method not allowed"
	default:
		if code < http.StatusInternalServerError && he != nil {
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
	}
	if code >= http.StatusInternalServerError {
		logger.Error("HTTP %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Error: msg})
}
