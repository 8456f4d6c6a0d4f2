package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/auth"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/repository"
	"github.com/mohammadDV/new-mvc-framework/requests"
	"github.com/mohammadDV/new-mvc-framework/session"
)

func (h *Handler) ShowLogin(c *fiber.Ctx) error {
	return h.Render(c, "auth/login", "Login", nil)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	errs, err := h.validator.Validate(ctx, formInput{c}, requests.Login())
	if err != nil {
		return err
	}
	if errs.Any() {
		return errs
	}

	user, err := h.users.VerifyCredentials(ctx, strings.TrimSpace(c.FormValue("email")), c.FormValue("password"))
	if err != nil {
		return err
	}
	if user == nil {
		session.Error(c, "login", "Invalid email or password")
		return c.Redirect("/login")
	}

	if err := session.Regenerate(c); err != nil {
		return err
	}
	auth.Login(c, *user)
	session.Flash(c, "login", "Welcome back! You have been logged in successfully.")

	return c.Redirect("/")
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	auth.Logout(c)
	if err := session.Regenerate(c); err != nil {
		return err
	}
	session.Flash(c, "logout", "You have been logged out successfully.")
	return c.Redirect("/login")
}

func (h *Handler) ShowRegister(c *fiber.Ctx) error {
	return h.Render(c, "auth/register", "Register", fiber.Map{"Form": models.User{}})
}

func (h *Handler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	errs, err := h.validator.Validate(ctx, formInput{c}, requests.Register())
	if err != nil {
		return err
	}
	if errs.Any() {
		return errs
	}

	user := &models.User{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
	}

	id, err := h.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			session.Error(c, "email", "email must be unique")
			return c.Redirect("/register")
		}
		slog.ErrorContext(ctx, "register user", "error", err)
		session.Error(c, "register", "Registration failed due to a database error. Please try again.")
		return c.Redirect("/register")
	}
	if id == 0 {
		session.Error(c, "register", "Registration failed. Please try again.")
		return c.Redirect("/register")
	}

	created, err := h.users.Find(ctx, id)
	if err != nil || created == nil {
		session.Flash(c, "register", "Registration successful. Please login.")
		return c.Redirect("/login")
	}

	if err := session.Regenerate(c); err != nil {
		return err
	}
	auth.Login(c, *created)
	session.Flash(c, "register", "Registration successful. Welcome!")

	return c.Redirect("/")
}
