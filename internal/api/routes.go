package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoronov/skyfare/internal/config"
	"github.com/avoronov/skyfare/internal/search"
	"github.com/avoronov/skyfare/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(service *search.Service, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(service, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Flight search
		router.Post("/search", r.handler.Search)

		// City resolution probe
		router.Get("/cities/{name}", r.handler.ResolveCity)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
