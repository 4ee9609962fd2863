package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/telemetry"
)

// Catalog resolves the component names the server accepts.
// *manifest.Set implements it.
type Catalog interface {
	Component(name string) (*module.ComponentDef, bool)
	ComponentNames() []string
}

// Server serves component renders, template root nodes and live preview
// sessions over HTTP.
type Server struct {
	env      *runtime.Environment
	catalog  Catalog
	config   *Config
	renderer *render.Renderer
	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	router   chi.Router
	logger   *slog.Logger
	mw       []func(http.Handler) http.Handler

	httpServer *http.Server

	mu       sync.Mutex
	sessions map[*session]struct{}
	closing  bool
	wg       sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the server configuration.
func WithConfig(config *Config) Option {
	return func(s *Server) {
		s.config = config
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records preview sessions in m and serves g on /metrics.
// A nil g serves the default gatherer.
func WithMetrics(m *telemetry.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithMiddleware adds HTTP middleware in front of every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.mw = append(s.mw, mw...)
	}
}

// New creates a Server for the components of catalog, instantiated in env.
func New(env *runtime.Environment, catalog Catalog, opts ...Option) *Server {
	s := &Server{
		env:      env,
		catalog:  catalog,
		sessions: make(map[*session]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.config = s.config.withDefaults()
	if s.logger == nil {
		s.logger = slog.Default().With("component", "server")
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	s.renderer = render.NewRenderer(s.config.Render)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.config.CheckOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.mw...)

	r.Get("/healthz", s.handleHealth)
	r.Get("/components", s.handleComponents)
	r.Post("/components/{name}/render", s.handleRender)
	r.Post("/components/{name}/templates/{ref}/roots", s.handleTemplateRoots)
	r.Get("/ws/{name}", s.handleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the server's routes for mounting in another router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the server and blocks until it fails or receives SIGINT or
// SIGTERM, in which case it shuts down gracefully.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting preview sessions, closes the open ones and
// gracefully stops the HTTP server. It returns ctx's error when sessions
// are still running once ctx or the configured shutdown timeout expires.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Sessions register under s.mu, so none is added after this.
	s.mu.Lock()
	s.closing = true
	for sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Error("sessions still open at shutdown", "sessions", s.SessionCount())
		return ctx.Err()
	}
	s.logger.Info("server shutdown complete")
	return nil
}

// SessionCount returns the number of open preview sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}
