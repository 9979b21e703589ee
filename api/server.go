package api

import (
	"net/http"

	"goinsight/app"
	"goinsight/internal/config"
	"goinsight/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Version is reported by the root and health endpoints
const Version = "1.0.0"

// Server is the HTTP boundary: it owns the router and translates the
// Result envelope and error taxonomy into transport responses.
type Server struct {
	router      *chi.Mux
	service     *app.AnalysisService
	repo        ports.RecordRepository
	aggregates  *app.AggregateProvider
	descriptive *app.DescriptiveCalculator
	scorer      *app.ScoreCalculator
	log         zerolog.Logger
	cfg         config.ServerConfig
}

// NewServer wires the boundary over the orchestration layer
func NewServer(
	cfg config.ServerConfig,
	service *app.AnalysisService,
	repo ports.RecordRepository,
	aggregates *app.AggregateProvider,
	descriptive *app.DescriptiveCalculator,
	scorer *app.ScoreCalculator,
	log zerolog.Logger,
) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		service:     service,
		repo:        repo,
		aggregates:  aggregates,
		descriptive: descriptive,
		scorer:      scorer,
		log:         log,
		cfg:         cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(collectMetrics)
	s.router.Use(recoverer(s.log, s.cfg.Debug))
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID", "X-User-Name"},
		AllowCredentials: true,
	}).Handler)
	s.router.Use(withIdentity)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analysis", s.handleAnalyze)
		r.Get("/analysis/health", s.handleHealth)
		r.Post("/score", s.handleScore)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.handleListRecords)
			r.Post("/", s.handleCreateRecord)
			r.Get("/summary", s.handleSummary)
			r.Get("/stats", s.handleStats)
			r.Get("/export", s.handleExport)
			r.Get("/{id}", s.handleGetRecord)
			r.Put("/{id}", s.handleUpdateRecord)
			r.Delete("/{id}", s.handleDeleteRecord)
		})
	})
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP on the given address
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("starting goinsight server")
	return http.ListenAndServe(addr, s.router)
}
