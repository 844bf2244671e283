package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stridelabs/stride"
	apimiddleware "github.com/stridelabs/stride/infrastructure/api/middleware"
	v1 "github.com/stridelabs/stride/infrastructure/api/v1"
)

// APIServer provides an HTTP API backed by a stride Client.
//
// Write protection covers mutating endpoints when API keys are configured
// on the client; every /api/v1 route additionally requires the owner id
// header set by the auth proxy in front of this service.
type APIServer struct {
	client       *stride.Client
	server       *Server
	router       chi.Router
	routerCalled bool
	corsOrigins  []string
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given stride Client.
// corsOrigins lists the browser origins allowed to call the API; empty
// disables CORS handling.
func NewAPIServer(client *stride.Client, corsOrigins []string) *APIServer {
	return &APIServer{
		client:      client,
		corsOrigins: corsOrigins,
		logger:      client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call
// MountRoutes().
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all v1 API routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

// mountRoutes wires up all v1 API routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	coachRouter := v1.NewCoachRouter(c)
	workoutsRouter := v1.NewWorkoutsRouter(c)
	profileRouter := v1.NewProfileRouter(c)
	achievementsRouter := v1.NewAchievementsRouter(c)
	notificationsRouter := v1.NewNotificationsRouter(c)

	if len(a.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-KEY", "X-Owner-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(apimiddleware.RequireOwner)
		r.Use(apimiddleware.WriteProtect(apimiddleware.NewAuthConfigWithKeys(c.APIKeys())))

		// Streaming routes are mounted without the Timeout middleware,
		// which wraps the ResponseWriter in a way SSE cannot use.
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(60 * time.Second))
			r.Post("/coach/ask", coachRouter.Ask)
			r.Mount("/workouts", workoutsRouter.Routes())
			r.Mount("/profile", profileRouter.Routes())
			r.Mount("/achievements", achievementsRouter.Routes())
		})

		r.Post("/coach/ask/stream", coachRouter.AskStream)
		r.Mount("/notifications", notificationsRouter.Routes())
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// healthHandler reports service liveness.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterHealth mounts liveness endpoints on the router.
func (a *APIServer) RegisterHealth(router chi.Router) {
	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)
}
