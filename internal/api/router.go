package api

import (
	"net/http"

	"github.com/dom/plantally/internal/api/handlers"
	"github.com/dom/plantally/internal/api/middleware"
	"github.com/dom/plantally/internal/config"
	"github.com/dom/plantally/internal/service"
	"github.com/dom/plantally/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Sessions)
	sessionHandler := handlers.NewSessionHandler()
	plantHandler := handlers.NewPlantHandler()
	wsHandler := handlers.NewWebSocketHandler(hub, services.Sessions, cfg.TimerTickInterval)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/demo", authHandler.Demo)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Sessions))
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Sessions))

			r.Route("/session", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Post("/subscribe", sessionHandler.Subscribe)
				r.Get("/timer", sessionHandler.Timer)
			})

			r.Route("/plants", func(r chi.Router) {
				r.Get("/", plantHandler.List)
				r.Post("/", plantHandler.Create)
				r.Get("/{id}", plantHandler.Get)
				r.Post("/{id}/water", plantHandler.Water)
				r.Post("/{id}/dead", plantHandler.MarkDead)
				r.Delete("/{id}", plantHandler.Delete)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
