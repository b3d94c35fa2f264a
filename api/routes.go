package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes registers the read-only surface and login
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, loginRateLimit int) {
	r.Get("/health", handlers.healthHandler.health())

	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Get("/projects/{projectID}", handlers.projectHandler.getProject())

	r.With(loginRateLimiter(loginRateLimit)).Post("/login", handlers.authHandler.login())
}

// setupModeratorRoutes registers every route that needs a logged in moderator
func setupModeratorRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.requireAuthenticated)

		r.Post("/logout", handlers.authHandler.logout())
		r.Get("/me", handlers.authHandler.me())

		r.Get("/mods", handlers.moderatorHandler.getAllModerators())
		r.Post("/mods", handlers.moderatorHandler.registerModerator())
		r.Delete("/mods/{moderatorID}", handlers.moderatorHandler.deleteModerator())

		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

		r.Post("/cv", handlers.cvHandler.uploadCV())
	})
}
