package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jjudge-oj/usersvc/config"
	"github.com/jjudge-oj/usersvc/internal/auth"
	"github.com/jjudge-oj/usersvc/internal/db"
	"github.com/jjudge-oj/usersvc/internal/events"
	"github.com/jjudge-oj/usersvc/internal/handlers"
	"github.com/jjudge-oj/usersvc/internal/observability"
	"github.com/jjudge-oj/usersvc/internal/services"
	"github.com/jjudge-oj/usersvc/internal/store"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	notifier   *events.Notifier
	log        logrus.FieldLogger
}

// Dependencies are the stores and broker backend the server runs against.
type Dependencies struct {
	Users    services.UserRepository
	Sessions services.SessionRepository
	Events   events.Backend
}

// New connects to postgres and the configured events backend and builds
// the server on top of them.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend, err := events.NewBackend(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("events backend: %w", err)
	}

	return build(cfg, log, Dependencies{
		Users:    store.NewUserRepository(dbConn),
		Sessions: store.NewSessionRepository(dbConn),
		Events:   backend,
	}, dbConn), nil
}

// NewWithDependencies builds the server on caller supplied stores, such as
// store.Memory for local runs and tests.
func NewWithDependencies(cfg config.Config, log logrus.FieldLogger, deps Dependencies) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Users == nil || deps.Sessions == nil {
		return nil, errors.New("user and session repositories are required")
	}
	if deps.Events == nil {
		deps.Events = events.Noop{}
	}
	return build(cfg, log, deps, nil), nil
}

func build(cfg config.Config, log logrus.FieldLogger, deps Dependencies, dbConn *sql.DB) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	notifier := events.NewNotifier(deps.Events, log)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	ids := auth.UUIDGenerator{}

	userService := services.NewUserService(deps.Users, hasher, ids, auth.ValidID, notifier)
	sessionService := services.NewSessionService(
		deps.Sessions,
		deps.Users,
		hasher,
		ids,
		auth.ValidID,
		notifier,
		cfg.SessionExpiryHours,
	)

	metrics := observability.NewMetrics()
	if dbConn != nil {
		metrics.Registry().MustRegister(collectors.NewDBStatsCollector(dbConn, "usersvc"))
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		metrics.Middleware,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, log)
	})
	router.Route("/sessions", func(r chi.Router) {
		handlers.SessionRouter(r, sessionService, log)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		notifier:   notifier,
		log:        log,
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is
// done, then releases the database and broker.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.notifier != nil {
		if cerr := s.notifier.Close(); cerr != nil {
			s.log.WithError(cerr).Warn("closing events backend")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
