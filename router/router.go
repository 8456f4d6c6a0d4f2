// Package router registers declarative route tables on fiber and builds URLs for named routes.
package router

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
)

var placeholder = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

type Route struct {
	Method     string
	Path       string
	Name       string
	Handler    fiber.Handler
	Middleware []string
}

type Router struct {
	app        fiber.Router
	middleware map[string]fiber.Handler

	mu    sync.RWMutex
	named map[string]string
}

// New wraps app. middleware maps the names used in route tables to handlers.
func New(app fiber.Router, middleware map[string]fiber.Handler) *Router {
	return &Router{app: app, middleware: middleware, named: map[string]string{}}
}

// Register adds routes in order. It fails on unknown middleware names and duplicate route names.
func (r *Router) Register(routes ...Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rt := range routes {
		handlers := make([]fiber.Handler, 0, len(rt.Middleware)+1)
		for _, name := range rt.Middleware {
			mw, ok := r.middleware[name]
			if !ok {
				return fmt.Errorf("route %s %s: unknown middleware %q", rt.Method, rt.Path, name)
			}
			handlers = append(handlers, mw)
		}
		handlers = append(handlers, rt.Handler)

		if rt.Name != "" {
			if _, dup := r.named[rt.Name]; dup {
				return fmt.Errorf("route name %q registered twice", rt.Name)
			}
			r.named[rt.Name] = rt.Path
		}

		r.app.Add(strings.ToUpper(rt.Method), FiberPath(rt.Path), handlers...)
	}
	return nil
}

// URL fills the placeholders of the named route with params, in order.
func (r *Router) URL(name string, params ...any) (string, error) {
	r.mu.RLock()
	pattern, ok := r.named[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("route %q not defined", name)
	}

	i := 0
	var missing bool
	url := placeholder.ReplaceAllStringFunc(pattern, func(string) string {
		if i >= len(params) {
			missing = true
			return ""
		}
		v := fmt.Sprint(params[i])
		i++
		return v
	})
	if missing {
		return "", fmt.Errorf("route %q: missing parameters", name)
	}
	if i < len(params) {
		return "", fmt.Errorf("route %q: too many parameters", name)
	}
	return url, nil
}

// Static serves dir under prefix with a one year cache lifetime.
func (r *Router) Static(prefix, dir string) {
	r.app.Static(prefix, dir, fiber.Static{
		Compress: true,
		MaxAge:   31536000,
	})
}

// FiberPath turns /posts/{id} into /posts/:id.
func FiberPath(path string) string {
	return placeholder.ReplaceAllString(path, ":$1")
}
