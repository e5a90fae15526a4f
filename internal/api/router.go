package api

import (
	"net/http"
	"time"

	"taskboard/internal/api/handler"
	"taskboard/internal/api/middleware"
	"taskboard/internal/app/service"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	taskService *service.TaskService,
	userRepo repository.UserRepository,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses a bearer token if present; Authenticator below decides
	// whether the request may proceed.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	authenticator := middleware.Authenticator(userRepo)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", authHandler.RegisterRoutes)

		// Task routes (authenticated)
		taskHandler := handler.NewTaskHandler(taskService)
		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authenticator)
			taskHandler.RegisterRoutes(tasks)
		})
	})

	return r
}
