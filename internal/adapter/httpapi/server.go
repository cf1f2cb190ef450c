package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/dmoura/financo-backend/internal/domain"
	"github.com/dmoura/financo-backend/internal/usecase/analyzer"
	"github.com/dmoura/financo-backend/internal/usecase/challenge"
	"github.com/dmoura/financo-backend/internal/usecase/dashboard"
	"github.com/dmoura/financo-backend/internal/usecase/health"
	"github.com/dmoura/financo-backend/internal/usecase/position"
	"github.com/dmoura/financo-backend/internal/usecase/screener"
	"github.com/dmoura/financo-backend/internal/usecase/statement"
)

// Services bundles the use cases exposed over HTTP
type Services struct {
	Position    *position.Service
	Analyzer    *analyzer.Service
	Screener    *screener.Service
	Health      *health.Service
	Dashboard   *dashboard.Service
	Statement   *statement.Service
	Challenge   *challenge.Service
	Instruments domain.InstrumentRepository
}

// Config holds server configuration
type Config struct {
	Port     int
	Log      zerolog.Logger
	Services Services
	DevMode  bool
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	svc    Services
	port   int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		svc:    cfg.Services,
		port:   cfg.Port,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Liveness probe
	s.router.Get("/health", s.handleLiveness)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/instruments", func(r chi.Router) {
			r.Post("/", s.handleCreateInstrument)
			r.Post("/{id}/recompute", s.handleRecompute)
			r.Delete("/{id}", s.handleDeleteInstrument)
		})

		r.Route("/operations", func(r chi.Router) {
			r.Post("/", s.handleRecordOperation)
			r.Put("/{id}", s.handleUpdateOperation)
			r.Delete("/{id}", s.handleDeleteOperation)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/instruments", s.handleListInstruments)
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/health", s.handleDiagnose)
			r.Get("/cashflow", s.handleCashFlow)
			r.Get("/bills", s.handleListBills)
			r.Get("/statements", s.handleStatements)
		})

		r.Post("/transactions", s.handleRecordTransaction)
		r.Post("/bills", s.handleRecordBill)

		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", s.handleStartChallenge)
			r.Get("/{id}", s.handleChallengeProgress)
		})

		r.Get("/market/screener", s.handleScreener)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
