package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kiwiclean/housewash-platform/internal/catalog"
	"github.com/kiwiclean/housewash-platform/internal/cities"
	"github.com/kiwiclean/housewash-platform/internal/crm"
	httpmiddleware "github.com/kiwiclean/housewash-platform/internal/http/middleware"
	"github.com/kiwiclean/housewash-platform/internal/leads"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	LeadsHandler   *leads.Handler
	CatalogHandler *catalog.Handler
	CitiesHandler  *cities.Handler
	CRMHandler     *crm.Handler
	MetricsHandler http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string
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

	// Public endpoints consumed by the marketing site.
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.LeadsHandler != nil {
			public.Post("/leads", cfg.LeadsHandler.Create)
		}
		if cfg.CatalogHandler != nil {
			public.Get("/services/options", cfg.CatalogHandler.Options)
		}
		if cfg.CitiesHandler != nil {
			public.Get("/cities/suggest", cfg.CitiesHandler.Suggest)
		}
		if cfg.CRMHandler != nil {
			public.Post("/crm/sync", cfg.CRMHandler.Sync)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin panel endpoints, JWT-protected.
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.LeadsHandler != nil {
				admin.Get("/leads", cfg.LeadsHandler.List)
				admin.Delete("/leads/{id}", cfg.LeadsHandler.Delete)
			}
			if cfg.CatalogHandler != nil {
				admin.Get("/services", cfg.CatalogHandler.AdminList)
				admin.Post("/services", cfg.CatalogHandler.AdminCreate)
				admin.Put("/services/order", cfg.CatalogHandler.AdminReorder)
				admin.Put("/services/{id}", cfg.CatalogHandler.AdminUpdate)
				admin.Delete("/services/{id}", cfg.CatalogHandler.AdminDeactivate)
			}
		})
	}

	return r
}
