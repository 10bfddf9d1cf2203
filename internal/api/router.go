package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mreid/group-session-website/internal/api/handlers"
	"github.com/mreid/group-session-website/internal/api/middleware"
	"github.com/mreid/group-session-website/internal/config"
	"github.com/mreid/group-session-website/internal/identity"
	"github.com/mreid/group-session-website/internal/repository"
	"github.com/mreid/group-session-website/internal/service"
)

func NewRouter(services *service.Services, repos *repository.Repositories, provider identity.Provider, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.RequireAuth(provider))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	pagesHandler := handlers.NewPagesHandler(repos.Session, services.User)
	joinHandler := handlers.NewJoinHandler(services.Join)
	usersHandler := handlers.NewUsersHandler(services.User)
	webhookHandler := handlers.NewWebhookHandler(services.User, repos.IdentityEvent, cfg.IdentityWebhookSecret)
	presenceHandler := handlers.NewPresenceHandler(services.User, provider)

	// Public pages
	r.Get("/", pagesHandler.Home)
	r.Get("/home", pagesHandler.Home)
	r.Get("/home/about", pagesHandler.About)
	r.Get("/home/researchers", pagesHandler.Researchers)

	// Join flow (does its own ad hoc authentication)
	r.Get("/join/{sessionId}", joinHandler.Join)
	r.Get("/join/{sessionId}/group", pagesHandler.Group)

	// Identity-provider webhook
	r.Post("/api/webhooks/identity", webhookHandler.Handle)

	// API v1 routes (protected)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sessions/{sessionId}/participants", usersHandler.Participants)
		r.Get("/users/active", usersHandler.Active)
		r.Post("/users/me/activity", usersHandler.UpdateActivity)

		// Presence socket (token via query parameter)
		r.Get("/presence", presenceHandler.Handle)
	})

	return r
}
