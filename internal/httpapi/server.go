// Package httpapi exposes the wagering analytics and paper book over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/ledger"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/metrics"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/pace"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/streaming"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/teamfilter"
)

// Server contains dependencies for HTTP handlers.
type Server struct {
	tracker *pace.Tracker
	book    *ledger.Book
	filter  *teamfilter.Filter
	hub     *streaming.Hub
	metrics *metrics.EngineMetrics
	logger  *zap.Logger

	kellyFraction float64
}

// Options wires the server's collaborators. Nil fields fall back to inert
// defaults so analytics endpoints work standalone.
type Options struct {
	Tracker       *pace.Tracker
	Book          *ledger.Book
	Filter        *teamfilter.Filter
	Hub           *streaming.Hub
	Metrics       *metrics.EngineMetrics
	Logger        *zap.Logger
	KellyFraction float64
}

// NewServer creates a new API server.
func NewServer(opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Filter == nil {
		opts.Filter = teamfilter.New()
	}
	return &Server{
		tracker:       opts.Tracker,
		book:          opts.Book,
		filter:        opts.Filter,
		hub:           opts.Hub,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		kellyFraction: opts.KellyFraction,
	}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router(allowedOrigins []string) chi.Router {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	if s.hub != nil {
		r.Get("/ws", s.hub.ServeWS)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/parlay", s.handleParlay)
		r.Post("/kelly", s.handleKelly)
		r.Post("/hedge", s.handleHedge)
		r.Get("/triggers", s.handleTriggers)
		r.Get("/teams", s.handleTeams)
		r.Get("/account", s.handleAccount)
		r.Post("/wagers", s.handlePlaceWager)
		r.Post("/wagers/{ticketID}/settle", s.handleSettleWager)
	})

	return r
}
