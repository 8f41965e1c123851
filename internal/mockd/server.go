// Package mockd is an in-memory stand-in for the Side daemon's HTTP API.
//
// It serves the workspace and task endpoints sidestatus uses, and can be
// told to fail the workspace list with a chosen status. The
// `sidestatus mock-daemon` command and the integration tests run it.
package mockd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/danieljhkim/sidestatus/internal/clock"
	"github.com/danieljhkim/sidestatus/internal/daemon"
)

// DefaultAddr is where the real daemon listens.
const DefaultAddr = "127.0.0.1:8855"

// Config controls the mock daemon.
type Config struct {
	// Addr is the listen address; port 0 picks a free port.
	Addr string

	// FailStatus, when non-zero, is returned by the workspace list endpoint
	// instead of data.
	FailStatus int

	// Workspaces are loaded into the store at startup.
	Workspaces []daemon.Workspace
}

// Server is the mock daemon's HTTP server.
type Server struct {
	echo *echo.Echo
	l    *zap.Logger
	addr string

	mu         sync.Mutex
	httpServer *http.Server
	boundAddr  string
}

func NewServer(cfg Config, store *Store, l *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	configureMiddleware(e, l)
	configureRoutes(e, &handlers{cfg: cfg, store: store}, l)

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{echo: e, l: l, addr: addr}
}

func configureMiddleware(e *echo.Echo, l *zap.Logger) {
	// Request ID must come first
	e.Use(middleware.RequestID())

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1 << 12, // 4 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			l.Error("recovered from panic",
				zap.Error(err),
				zap.ByteString("stack", stack),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		},
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogRequestID: true,
		LogStatus:    true,
	}))
}

func configureRoutes(e *echo.Echo, h *handlers, l *zap.Logger) {
	api := e.Group("/api/v1")
	api.GET("/health", wrap(h.health, l))
	api.GET("/workspaces/", wrap(h.listWorkspaces, l))
	api.GET("/workspaces", wrap(h.listWorkspaces, l))
	api.POST("/workspaces", wrap(h.createWorkspace, l))
	api.GET("/workspaces/:id/tasks", wrap(h.listTasks, l))
	api.POST("/workspaces/:id/tasks", wrap(h.createTask, l))
	api.GET("/workspaces/:id/tasks/:taskId", wrap(h.getTask, l))
	api.PUT("/workspaces/:id/tasks/:taskId", wrap(h.updateTask, l))
	api.DELETE("/workspaces/:id/tasks/:taskId", wrap(h.deleteTask, l))
}

// Handler exposes the routes without a listener, for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("mockd: listen on %s: %w", s.addr, err)
	}

	server := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = server
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()

	s.l.Info("starting mock daemon", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.l.Error("mock daemon stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.httpServer
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	s.l.Info("shutdown signal received")
	return server.Shutdown(ctx)
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

// BaseURL returns the API root clients should use once started.
func (s *Server) BaseURL() string {
	return "http://" + s.Addr() + "/api/v1"
}

// Run ties the server to the fx lifecycle.
func Run(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}

func seed(cfg Config, store *Store) {
	for _, ws := range cfg.Workspaces {
		store.Seed(ws)
	}
}

// Module wires the mock daemon into an fx application. The application must
// also provide a *zap.Logger.
func Module(cfg Config) fx.Option {
	return fx.Module("mockd",
		fx.Supply(cfg),
		fx.Provide(
			func() clock.Clock { return &clock.RealClock{} },
			NewStore,
			NewServer,
		),
		fx.Invoke(seed, Run),
	)
}
