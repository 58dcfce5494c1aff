package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/almazbisenbaev/tbilingo-app/internal/api"
	apiMiddleware "github.com/almazbisenbaev/tbilingo-app/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	levelHandler := api.NewLevelHandler(app.levelService)
	courseHandler := api.NewCourseHandler(app.courseStore, app.itemStore, app.progressService, app.emitter)
	sessionHandler := api.NewSessionHandler(app.sessionManager)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/levels", levelHandler.Overview)

			r.Get("/courses/{courseID}", courseHandler.GetCourse)
			r.Get("/courses/{courseID}/items", courseHandler.ListItems)
			r.Get("/courses/{courseID}/progress", courseHandler.GetProgress)
			r.Post("/courses/{courseID}/finish", courseHandler.Finish)

			r.Post("/sessions", sessionHandler.Start)
			r.Get("/sessions/{sessionID}", sessionHandler.Get)
			r.Post("/sessions/{sessionID}/advance", sessionHandler.Advance)
			r.Post("/sessions/{sessionID}/learned", sessionHandler.Learned)
			r.Post("/sessions/{sessionID}/answer", sessionHandler.Answer)
			r.Delete("/sessions/{sessionID}", sessionHandler.Abort)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
