package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/petergfitz2/athena-ai-sub000/internal/api/handlers"
	analyticsHandler "github.com/petergfitz2/athena-ai-sub000/internal/api/handlers/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/api/middleware"
	"github.com/petergfitz2/athena-ai-sub000/internal/api/routes"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/metrics"
)

// Config holds router configuration
type Config struct {
	AnalyticsHandler *analyticsHandler.Handler
	HealthHandler    *handlers.HealthHandler
	Metrics          *metrics.Registry // optional
	AccessLogger     *zerolog.Logger   // optional
	AllowedOrigins   []string
}

// NewRouter creates a new HTTP router
func NewRouter(cfg *Config) http.Handler {
	r := mux.NewRouter()

	var recorder middleware.RequestRecorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}

	// Middleware (outermost first)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(middleware.LoggingConfig{
		AccessLogger: cfg.AccessLogger,
		SkipPaths:    []string{"/health", "/metrics"},
		Recorder:     recorder,
	}))

	// Health check
	r.HandleFunc("/health", cfg.HealthHandler.Health).Methods("GET")
	r.HandleFunc("/health/db", cfg.HealthHandler.Database).Methods("GET")
	r.HandleFunc("/health/ready", cfg.HealthHandler.Ready).Methods("GET")

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods("GET")
	}

	routes.RegisterAnalyticsRoutes(r, cfg.AnalyticsHandler)

	if len(cfg.AllowedOrigins) == 0 {
		return r
	}
	return middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins))(r)
}
