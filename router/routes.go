package router

import (
	"github.com/gofiber/fiber/v2"
	handler "github.com/mohammadDV/new-mvc-framework/handlers"
)

// Middleware names usable in route tables.
const (
	MiddlewareAuth  = "auth"
	MiddlewareGuest = "guest"
	MiddlewareCSRF  = "csrf"
	MiddlewareToken = "token"
)

// Web is the route table of the HTML site.
func Web(h *handler.Handler) []Route {
	auth := []string{MiddlewareAuth}
	authCSRF := []string{MiddlewareAuth, MiddlewareCSRF}
	guest := []string{MiddlewareGuest}
	guestCSRF := []string{MiddlewareGuest, MiddlewareCSRF}

	return []Route{
		{Method: fiber.MethodGet, Path: "/", Name: "home", Handler: h.Index},
		{Method: fiber.MethodGet, Path: "/profile", Name: "profile", Handler: h.Profile, Middleware: auth},

		{Method: fiber.MethodGet, Path: "/login", Name: "login", Handler: h.ShowLogin, Middleware: guest},
		{Method: fiber.MethodPost, Path: "/login", Name: "login.store", Handler: h.Login, Middleware: guestCSRF},
		{Method: fiber.MethodGet, Path: "/register", Name: "register", Handler: h.ShowRegister, Middleware: guest},
		{Method: fiber.MethodPost, Path: "/register", Name: "register.store", Handler: h.Register, Middleware: guestCSRF},
		{Method: fiber.MethodPost, Path: "/logout", Name: "logout", Handler: h.Logout, Middleware: authCSRF},
		{Method: fiber.MethodGet, Path: "/logout", Name: "logout.get", Handler: h.Logout, Middleware: auth},

		{Method: fiber.MethodGet, Path: "/users", Name: "users.index", Handler: h.UsersIndex, Middleware: auth},
		{Method: fiber.MethodGet, Path: "/users/create", Name: "users.create", Handler: h.UsersCreate, Middleware: auth},
		{Method: fiber.MethodPost, Path: "/users", Name: "users.store", Handler: h.UsersStore, Middleware: authCSRF},
		{Method: fiber.MethodGet, Path: "/users/{id}", Name: "users.show", Handler: h.UsersShow, Middleware: auth},
		{Method: fiber.MethodGet, Path: "/users/{id}/edit", Name: "users.edit", Handler: h.UsersEdit, Middleware: auth},
		{Method: fiber.MethodPost, Path: "/users/{id}/update", Name: "users.update", Handler: h.UsersUpdate, Middleware: authCSRF},
		{Method: fiber.MethodPost, Path: "/users/{id}/delete", Name: "users.destroy", Handler: h.UsersDestroy, Middleware: authCSRF},
		{Method: fiber.MethodPut, Path: "/users/{id}", Handler: h.UsersUpdate, Middleware: authCSRF},
		{Method: fiber.MethodDelete, Path: "/users/{id}", Handler: h.UsersDestroy, Middleware: authCSRF},

		{Method: fiber.MethodGet, Path: "/posts", Name: "posts.index", Handler: h.PostsIndex, Middleware: auth},
		{Method: fiber.MethodGet, Path: "/posts/create", Name: "posts.create", Handler: h.PostsCreate, Middleware: auth},
		{Method: fiber.MethodPost, Path: "/posts", Name: "posts.store", Handler: h.PostsStore, Middleware: authCSRF},
		{Method: fiber.MethodGet, Path: "/posts/{id}", Name: "posts.show", Handler: h.PostsShow},
		{Method: fiber.MethodGet, Path: "/posts/{id}/edit", Name: "posts.edit", Handler: h.PostsEdit, Middleware: auth},
		{Method: fiber.MethodPost, Path: "/posts/{id}/update", Name: "posts.update", Handler: h.PostsUpdate, Middleware: authCSRF},
		{Method: fiber.MethodPost, Path: "/posts/{id}/delete", Name: "posts.destroy", Handler: h.PostsDestroy, Middleware: authCSRF},
		{Method: fiber.MethodPut, Path: "/posts/{id}", Handler: h.PostsUpdate, Middleware: authCSRF},
		{Method: fiber.MethodDelete, Path: "/posts/{id}", Handler: h.PostsDestroy, Middleware: authCSRF},
	}
}

// API is the JSON route table, mounted under /api.
func API(h *handler.Handler) []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/health/live", Name: "api.health.live", Handler: h.Live},
		{Method: fiber.MethodGet, Path: "/health/ready", Name: "api.health.ready", Handler: h.Ready},

		{Method: fiber.MethodPost, Path: "/auth/token", Name: "api.auth.token", Handler: h.IssueToken},
		{Method: fiber.MethodPost, Path: "/auth/logout", Name: "api.auth.logout", Handler: h.RevokeToken},

		{Method: fiber.MethodGet, Path: "/posts", Name: "api.posts.index", Handler: h.APIPosts},
		{Method: fiber.MethodGet, Path: "/posts/{id}", Name: "api.posts.show", Handler: h.APIPost},
		{Method: fiber.MethodGet, Path: "/me", Name: "api.me", Handler: h.Me, Middleware: []string{MiddlewareToken}},
	}
}
