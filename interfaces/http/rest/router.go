// Package rest wires the HTTP surface: routing, middleware, and the
// request handlers for projects, nodes, edges, and the catalog.
package rest

import (
	"net/http"

	"buildflow-backend/application/services"
	"buildflow-backend/infrastructure/config"
	"buildflow-backend/interfaces/http/rest/handlers"
	"buildflow-backend/interfaces/http/rest/middleware"
	"buildflow-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	service   *services.ProjectService
	validator *auth.JWTValidator
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	service *services.ProjectService,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		projectHandler := handlers.NewProjectHandler(rt.service, rt.logger)
		nodeHandler := handlers.NewNodeHandler(rt.service, rt.logger)
		edgeHandler := handlers.NewEdgeHandler(rt.service, rt.logger)
		catalogHandler := handlers.NewCatalogHandler(rt.logger)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Put("/", projectHandler.ReplaceProject)
				r.Delete("/", projectHandler.DeleteProject)
				r.Post("/clear", projectHandler.ClearProject)
				r.Post("/operations", projectHandler.ApplyOperations)
				r.Get("/deploy/plan", projectHandler.GetDeployPlan)
				r.Get("/deploy/status", projectHandler.GetDeployStatus)

				r.Route("/nodes", func(r chi.Router) {
					r.Post("/", nodeHandler.CreateNode)
					r.Patch("/{nodeID}", nodeHandler.UpdateNode)
					r.Put("/{nodeID}/position", nodeHandler.MoveNode)
					r.Delete("/{nodeID}", nodeHandler.DeleteNode)
				})

				r.Route("/edges", func(r chi.Router) {
					r.Post("/", edgeHandler.CreateEdge)
					r.Patch("/{edgeID}", edgeHandler.UpdateEdge)
					r.Delete("/{edgeID}", edgeHandler.DeleteEdge)
				})
			})
		})

		r.Get("/catalog", catalogHandler.GetCatalog)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
