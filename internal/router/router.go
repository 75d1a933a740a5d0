package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-trip-images/internal/api/images"
	"github.com/FACorreiaa/go-trip-images/internal/api/places"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ImagesHandler  *images.HandlerImpl
	PlacesHandler  *places.HandlerImpl
	MetricsHandler http.Handler
	AllowedOrigins []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (request id, logger, recoverer) is applied in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/images", func(r chi.Router) {
			r.Get("/", cfg.ImagesHandler.GetImage)
			r.Post("/batch", cfg.ImagesHandler.BatchImages)
			r.Post("/trip", cfg.ImagesHandler.TripImages)
			r.Get("/gallery", cfg.ImagesHandler.GetGallery)
			r.Get("/cache/stats", cfg.ImagesHandler.CacheStats)
		})

		r.Get("/places/search", cfg.PlacesHandler.SearchPlaces)
	})

	return r
}
