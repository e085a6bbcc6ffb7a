package router

import (
	"encoding/json"
	"net/http"

	"github.com/bridgei2p/leadportal/internal/http/handlers"
	httpmiddleware "github.com/bridgei2p/leadportal/internal/http/middleware"
	"github.com/bridgei2p/leadportal/pkg/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Landing            *handlers.LandingHandler
	AdminLeads         *handlers.AdminLeadsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	// FormLimiter throttles POST /lead-form per client when set.
	FormLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Landing != nil {
		r.Get("/", cfg.Landing.Page)
		r.Group(func(form chi.Router) {
			if cfg.FormLimiter != nil {
				form.Use(httpmiddleware.RateLimit(cfg.FormLimiter, http.HandlerFunc(cfg.Landing.Throttled)))
			}
			form.Post("/lead-form", cfg.Landing.Action)
		})
	}

	if cfg.AdminLeads != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/", cfg.AdminLeads.Page)
			admin.Post("/refresh", cfg.AdminLeads.Refresh)
			admin.Get("/export.csv", cfg.AdminLeads.Export)
		})
	}

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
