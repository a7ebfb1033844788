package api

import (
	"net/http"
	"time"

	"sqldrill/internal/api/handler"
	"sqldrill/internal/app/service"
	"sqldrill/internal/common/security"
	"sqldrill/internal/domain/catalog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authService *service.AuthService,
	setService *service.ProblemSetService,
	playService *service.PlayService,
	cat *catalog.Catalog,
	shareBaseURL string,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// JWT Auth Middleware Setup
	// Verifies a token found in "Authorization: Bearer T" and puts claims in
	// context; route groups opt into enforcement via middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Catalog routes (public)
		problemHandler := handler.NewProblemHandler(cat)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		// Problem set routes (authenticated)
		setHandler := handler.NewProblemSetHandler(setService, shareBaseURL)
		v1.Route("/problem-sets", setHandler.RegisterRoutes)

		// Play session routes (authenticated)
		playHandler := handler.NewPlayHandler(playService)
		v1.Route("/play", playHandler.RegisterRoutes)
	})

	return r
}
