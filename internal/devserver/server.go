// Package devserver is an in-memory stand-in for the portal backend. It
// serves the same endpoints as the real API so the CLI can be exercised
// locally; every OTP request issues a fixed code that is logged.
package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/newsdesk/internal/health"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// Server serves the portal API from a Store.
type Server struct {
	httpServer      *http.Server
	store           *Store
	probeManager    *health.ProbeManager
	logger          *log.Logger
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address, e.g. ":8080".
	Address string

	// ShutdownTimeout bounds connection draining. Defaults to 5 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout defaults to 10 seconds.
	WriteTimeout time.Duration

	// IdleTimeout defaults to 60 seconds.
	IdleTimeout time.Duration
}

// NewServer creates a server over store. A nil probeManager gets a default one.
func NewServer(store *Store, probeManager *health.ProbeManager, cfg Config, logger *log.Logger) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if probeManager == nil {
		probeManager = health.NewProbeManager("dev")
	}
	if logger == nil {
		logger = log.Discard()
	}

	s := &Server{
		store:           store,
		probeManager:    probeManager,
		logger:          logger.With("component", "devserver"),
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/health/live", s.handleLiveness).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", s.handleReadiness).Methods(http.MethodGet)

	public := r.PathPrefix("/public/v1").Subrouter()
	public.HandleFunc("/register/otp", s.requestOTP).Methods(http.MethodPost)
	public.HandleFunc("/register", s.register).Methods(http.MethodPost)
	public.HandleFunc("/login", s.login).Methods(http.MethodPost)
	public.HandleFunc("/articles/home", s.listArticles).Methods(http.MethodGet)

	api := r.PathPrefix("/api/articles").Subrouter()
	api.Use(s.requireToken)
	api.HandleFunc("", s.createArticle).Methods(http.MethodPost)
	api.HandleFunc("/upload/{id}", s.uploadMedia).Methods(http.MethodPost)
	api.HandleFunc("/unpublish/{id}", s.unpublish).Methods(http.MethodPatch)
	api.HandleFunc("/review/{id}", s.review).Methods(http.MethodPatch)
	api.HandleFunc("/{id}", s.updateArticle).Methods(http.MethodPatch)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Handler exposes the router, for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving until Shutdown; it then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("dev server listening", "address", s.httpServer.Addr, "otp", s.store.otp)
	return s.httpServer.ListenAndServe()
}

// Shutdown fails readiness, stops keep-alives and drains connections for at
// most the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probeManager.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

type ctxKey struct{}

func userFrom(r *http.Request) *types.UserProfile {
	u, _ := r.Context().Value(ctxKey{}).(*types.UserProfile)
	return u
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		u, err := s.store.UserForToken(token)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", id,
			"duration", time.Since(start))
	})
}

func (s *Server) writeProbeResponse(w http.ResponseWriter, result *health.ProbeResult, unhealthyStatus int) {
	w.Header().Set("Content-Type", "application/json")

	if result.Status == health.StatusUnhealthy {
		w.WriteHeader(unhealthyStatus)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// handleLiveness always answers 200; degraded while shutting down.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckLiveness(r.Context()), http.StatusOK)
}

// handleReadiness answers 503 once shutdown has begun.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckReadiness(r.Context()), http.StatusServiceUnavailable)
}
