package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/socialchef/sous/internal/middleware"
	"github.com/socialchef/sous/internal/sentry"
)

// NewRouter mounts every route on a chi router with tracing, metrics, CORS,
// Sentry and optional auth in front.
func (s *Server) NewRouter() http.Handler {
	r := chi.NewRouter()
	serverName := s.cfg.ServiceName + "-server"

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(otelchi.Middleware(serverName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	metricCfg := otelchimetric.NewBaseConfig(serverName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", s.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.cfg))

		r.Get("/test-db", s.HandleTestDB)

		r.Route("/ai", func(r chi.Router) {
			limited := middleware.RateLimit(s.cfg.RateLimit)
			r.With(limited).Post("/generate-recipe", s.HandleGenerateRecipe)
			r.With(limited).Post("/generate-recipe/async", s.HandleGenerateRecipeAsync)
			r.Get("/drafts/{id}", s.HandleGetDraft)
			r.Post("/drafts/{id}/save", s.HandleSaveDraft)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.HandleListRecipes)
			r.Post("/", s.HandleCreateRecipe)
			r.Get("/{id}", s.HandleGetRecipe)
			r.Put("/{id}", s.HandleUpdateRecipe)
			r.Delete("/{id}", s.HandleDeleteRecipe)
			r.Get("/{id}/reviews", s.HandleListReviews)
			r.Post("/{id}/reviews", s.HandleCreateReview)
		})
	})

	return r
}
