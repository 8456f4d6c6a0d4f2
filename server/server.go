// Package server assembles the fiber application: middleware stack, views, routes and error pages.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/mohammadDV/new-mvc-framework/auth"
	"github.com/mohammadDV/new-mvc-framework/config"
	"github.com/mohammadDV/new-mvc-framework/csrf"
	handler "github.com/mohammadDV/new-mvc-framework/handlers"
	"github.com/mohammadDV/new-mvc-framework/middleware"
	"github.com/mohammadDV/new-mvc-framework/router"
	"github.com/mohammadDV/new-mvc-framework/session"
	"github.com/mohammadDV/new-mvc-framework/views"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const bodyLimit = 10 * 1024 * 1024

// Deps are the collaborators the server wires into routes and middleware.
type Deps struct {
	Handler  *handler.Handler
	Tokens   *auth.TokenService
	Sessions *session.Manager
	// Redis backs the rate limiter when set.
	Redis *redis.Client
	// Registry receives the HTTP metrics. A nil registry gets a private one.
	Registry *prometheus.Registry
}

type Server struct {
	app *fiber.App
	cfg *config.Config
	h   *handler.Handler
	web *router.Router
	api *router.Router
}

// New builds the application. Nothing listens until Listen is called.
func New(cfg *config.Config, d Deps) (*Server, error) {
	if d.Handler == nil || d.Sessions == nil || d.Tokens == nil {
		return nil, fmt.Errorf("server: handler, sessions and tokens are required")
	}

	s := &Server{cfg: cfg, h: d.Handler}

	s.app = fiber.New(fiber.Config{
		AppName:               cfg.AppTitle,
		Views:                 views.New(cfg.ViewsDir, s.URL),
		ErrorHandler:          s.handleError,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: cfg.IsProduction(),
	})

	mw := map[string]fiber.Handler{
		router.MiddlewareAuth:  middleware.Auth(),
		router.MiddlewareGuest: middleware.Guest(),
		router.MiddlewareCSRF:  csrf.Middleware(),
		router.MiddlewareToken: middleware.TokenAuth(d.Tokens),
	}
	s.web = router.New(s.app, mw)
	s.api = router.New(s.app.Group("/api"), mw)

	s.setupMiddleware(d)

	if err := s.api.Register(router.API(d.Handler)...); err != nil {
		return nil, err
	}
	if err := s.web.Register(router.Web(d.Handler)...); err != nil {
		return nil, err
	}

	s.app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Cannot "+c.Method()+" "+c.Path())
	})

	return s, nil
}

// setupMiddleware registers the global middleware. Everything here must stay ahead of
// the routes so that a spoofed method still walks the same middleware chain.
func (s *Server) setupMiddleware(d Deps) {
	s.app.Use(recover.New(recover.Config{EnableStackTrace: s.cfg.Debug}))
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	// static files and metrics skip sessions and rate limiting
	s.web.Static("/", s.cfg.PublicDir)

	registry := d.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	prom := fiberprometheus.NewWithRegistry(registry, "mvc-blog", "http", "", nil)
	prom.RegisterAt(s.app, "/metrics")
	s.app.Use(prom.Middleware)

	s.app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	s.app.Use(d.Sessions.Middleware())
	s.app.Use(middleware.LoadUser())
	s.app.Use(middleware.ContextMiddleware())
	s.app.Use(middleware.StructuredLogger())
	s.app.Use(middleware.RateLimit(d.Redis, s.cfg.RateLimitPerMinute, time.Minute, s.cfg.IsTesting()))
	s.app.Use(middleware.MethodOverride())
	s.app.Use(middleware.ValidationErrors())
}

// URL builds the path of a named web route.
func (s *Server) URL(name string, params ...any) (string, error) {
	if s.web == nil {
		return "", fmt.Errorf("route %q: router not ready", name)
	}
	return s.web.URL(name, params...)
}

// App exposes the fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
