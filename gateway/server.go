package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/pcokit/accessor"
	"github.com/jonwraymond/pcokit/auth"
	"github.com/jonwraymond/pcokit/health"
	"github.com/jonwraymond/pcokit/observe"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address. Default: ":8080"
	Addr string

	// Accessors serve the /api routes. Required.
	Accessors *accessor.Accessors

	// Health, when set, is mounted at /healthz, /readyz and /health.
	Health *health.Aggregator

	// Authenticator, when set, guards /api.
	Authenticator auth.Authenticator

	// ServeMetrics mounts the Prometheus handler at /metrics.
	ServeMetrics bool

	// Logger receives one line per request.
	// Default: no-op
	Logger observe.Logger

	// Now is the clock used for relative calendar windows.
	// Default: time.Now
	Now func() time.Time

	// ShutdownTimeout bounds Shutdown when the caller's context has no
	// deadline. Default: 15 seconds
	ShutdownTimeout time.Duration
}

// Server is the gateway HTTP server.
type Server struct {
	cfg     Config
	api     *accessor.Accessors
	logger  observe.Logger
	now     func() time.Time
	handler http.Handler

	mu         sync.RWMutex
	httpServer *http.Server
	addr       string
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Accessors == nil {
		return nil, errors.New("gateway: accessors are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}

	s := &Server{
		cfg:    cfg,
		api:    cfg.Accessors,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	if s.cfg.Health != nil {
		health.Mount(r, s.cfg.Health)
	}
	if s.cfg.ServeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if s.cfg.Authenticator != nil {
			r.Use(auth.Require(s.cfg.Authenticator, writeUnauthorized))
		}
		r.Use(chimw.AllowContentType("application/json"))

		r.Get("/service-types", s.serviceTypes)
		r.Route("/service-types/{st}", func(r chi.Router) {
			r.Get("/plans", s.plans)
			r.Get("/plans/{plan}", s.plan)
			r.Get("/plans/{plan}/schedules", s.schedules)
			r.Post("/plans/{plan}/schedules", s.createSchedule)
			r.Patch("/plans/{plan}/schedules/{schedule}", s.updateSchedule)
			r.Delete("/plans/{plan}/schedules/{schedule}", s.deleteSchedule)
			r.Get("/teams", s.teams)
			r.Get("/teams/{team}", s.team)
		})

		r.Get("/people", s.people)
		r.Get("/people/{id}", s.person)

		r.Get("/events", s.events)
		r.Post("/events", s.createEvent)
		r.Get("/events/{event}/check-ins", s.checkIns)
		r.Post("/events/{event}/check-ins", s.createCheckIn)

		r.Get("/donations", s.donations)
		r.Post("/donations", s.createDonation)

		r.Get("/calendar", s.calendarEvents)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("gateway: listen on %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	s.logger.Info(context.Background(), "gateway listening", observe.F("addr", s.addr))

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(context.Background(), "gateway server failed", observe.F("error", err.Error()))
		}
	}()
	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("gateway: shutdown: %w", err)
	}
	s.logger.Info(ctx, "gateway stopped")
	return nil
}

type envelope struct {
	Data any `json:"data"`
}

func writeData(w http.ResponseWriter, code int, v any) {
	writeJSON(w, code, envelope{Data: v})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
