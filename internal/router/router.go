package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-wanderlust-places/app/logger"
	appMiddleware "github.com/FACorreiaa/go-wanderlust-places/app/middleware"
	_ "github.com/FACorreiaa/go-wanderlust-places/docs"
	"github.com/FACorreiaa/go-wanderlust-places/internal/api"
	"github.com/FACorreiaa/go-wanderlust-places/internal/api/places"
	"github.com/FACorreiaa/go-wanderlust-places/internal/api/recommend"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlacesHandler    *places.HandlerImpl
	RecommendHandler *recommend.HandlerImpl
	AllowedOrigins   []string
	// RateLimit is the number of API requests one client IP may make per minute.
	// Zero disables the limiter.
	RateLimit      int
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// SetupRouter initializes and configures the API routes.
// Server-wide middleware is applied by NewHandler.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}

		r.Route("/places", func(r chi.Router) {
			r.Get("/search", cfg.PlacesHandler.SearchPlaces)
			r.Get("/photo", cfg.PlacesHandler.GetPhoto)
			r.Get("/details/{placeId}", cfg.PlacesHandler.GetPlaceDetails)
			r.Get("/landmark/{placeId}", cfg.PlacesHandler.GetLandmark)
			r.Get("/osm/search", cfg.PlacesHandler.SearchOSM)
		})

		r.Post("/ai-recommend", cfg.RecommendHandler.Recommend)
	})

	return r
}

// NewHandler wraps the API routes in the server-wide middleware stack.
func NewHandler(cfg *Config) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(cfg.Logger))
	router.Use(appMiddleware.Recoverer(cfg.Logger))
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", SetupRouter(cfg))
	return router
}
