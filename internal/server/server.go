// Package server provides the HTTP server and routing for the analysis
// engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/nickybricks/private-aesy-sub003/internal/config"
	"github.com/nickybricks/private-aesy-sub003/internal/database"
	analysishandlers "github.com/nickybricks/private-aesy-sub003/internal/modules/analysis/handlers"
	fxhandlers "github.com/nickybricks/private-aesy-sub003/internal/modules/fx/handlers"
	"github.com/nickybricks/private-aesy-sub003/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log              zerolog.Logger
	RatesDB          *database.DB
	CacheDB          *database.DB
	Config           *config.Config
	Port             int
	DevMode          bool
	FxHandler        *fxhandlers.Handler
	AnalysisHandler  *analysishandlers.Handler
	SnapshotJob      scheduler.Job
	CacheCleanupJob  scheduler.Job
	SchedulerService *scheduler.Scheduler
}

// Server represents the HTTP server
type Server struct {
	router          *chi.Mux
	server          *http.Server
	log             zerolog.Logger
	ratesDB         *database.DB
	cacheDB         *database.DB
	cfg             *config.Config
	fxHandler       *fxhandlers.Handler
	analysisHandler *analysishandlers.Handler
	systemHandlers  *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	systemHandlers := NewSystemHandlers(SystemConfig{
		Log:         cfg.Log,
		DataDir:     cfg.Config.DataDir,
		RatesDB:     cfg.RatesDB,
		CacheDB:     cfg.CacheDB,
		Scheduler:   cfg.SchedulerService,
		SnapshotJob: cfg.SnapshotJob,
		CleanupJob:  cfg.CacheCleanupJob,
	})

	s := &Server{
		router:          chi.NewRouter(),
		log:             cfg.Log.With().Str("component", "server").Logger(),
		ratesDB:         cfg.RatesDB,
		cacheDB:         cfg.CacheDB,
		cfg:             cfg.Config,
		fxHandler:       cfg.FxHandler,
		analysisHandler: cfg.AnalysisHandler,
		systemHandlers:  systemHandlers,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		if s.fxHandler != nil {
			s.fxHandler.RegisterRoutes(r)
		}
		if s.analysisHandler != nil {
			s.analysisHandler.RegisterRoutes(r)
		}
		s.systemHandlers.RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs each request with timing information
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
