package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the HTTP layer is built on. CVUploader may be nil, in
// which case POST /cv answers 503. Notifier may be nil to disable 5xx alerts.
type Dependencies struct {
	Database   database.Database
	Gate       *auth.Gate
	Projects   *services.ProjectService
	CVUploader services.CVUploader
	Notifier   services.Notifier
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies, c map[string]string) (Server, error) {
	if deps.Gate == nil || deps.Projects == nil {
		return Server{}, fmt.Errorf("api: auth gate and project service are required")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}
	c := router.config

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(HTTPLoggingMiddleware)
	if deps.Notifier != nil {
		chiRouter.Use(notifyServerErrors(deps.Notifier))
	}
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetList(c, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	ttl := auth.SessionTTL(config.GetInt(c, "SESSION_TTL_HOURS", 168))
	cookies := newSessionCookies(
		config.GetString(c, "SESSION_COOKIE_NAME", "portfolio_session"),
		[]byte(config.GetString(c, "SESSION_SECRET", "")),
		ttl,
		config.GetBool(c, "COOKIE_SECURE", true),
	)
	decoder := newRequestDecoder(int64(config.GetInt(c, "MAX_BODY_BYTES", 1<<20)))
	maxCVBytes := int64(config.GetInt(c, "MAX_CV_BYTES", 10<<20))

	handlers := initializeHandlers(deps, cookies, decoder, maxCVBytes, router.startupTime)
	authMiddleware := newAuthMiddleware(deps.Gate, cookies)

	setupPublicRoutes(chiRouter, handlers, config.GetInt(c, "LOGIN_RATE_LIMIT", 10))
	setupModeratorRoutes(chiRouter, handlers, authMiddleware)

	if config.GetBool(c, "METRICS_ENABLED", true) {
		if config.GetBool(c, "METRICS_PUBLIC", false) {
			chiRouter.Handle("/metrics", promhttp.Handler())
		} else {
			chiRouter.With(authMiddleware.requireAuthenticated).Handle("/metrics", promhttp.Handler())
		}
	}

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
