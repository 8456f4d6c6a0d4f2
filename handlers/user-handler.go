package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/repository"
	"github.com/mohammadDV/new-mvc-framework/requests"
	"github.com/mohammadDV/new-mvc-framework/validation"
)

func (h *Handler) UsersIndex(c *fiber.Ctx) error {
	perPage, page := pageParams(c, h.perPage)

	users, err := h.users.Paginate(c.UserContext(), perPage, page)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "paginate users", "error", err)
		return redirectWith(c, "/", "error", "Failed to load users. Please try again later.")
	}

	return h.Render(c, "users/index", "Users", fiber.Map{
		"Users": users.WithPath(c.Path(), queryValues(c)),
	})
}

func (h *Handler) UsersCreate(c *fiber.Ctx) error {
	return h.Render(c, "users/create", "Create User", fiber.Map{"Form": models.User{}})
}

func (h *Handler) UsersStore(c *fiber.Ctx) error {
	ctx := c.UserContext()

	errs, err := h.validator.Validate(ctx, formInput{c}, requests.User())
	if err != nil {
		return err
	}
	if errs.Any() {
		return errs
	}

	id, err := h.users.Create(ctx, &models.User{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		return redirectWith(c, "/users/create", "error", "Email already exists")
	case err != nil:
		slog.ErrorContext(ctx, "create user", "error", err)
		return redirectWith(c, "/users/create", "error", "Failed to create user. Please try again.")
	case id == 0:
		return redirectWith(c, "/users/create", "error", "Failed to create user")
	}

	return redirectWith(c, "/users", "success", "User created successfully")
}

// findUser loads the {id} user or redirects to the index with a message.
func (h *Handler) findUser(c *fiber.Ctx) (*models.User, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}

	user, err := h.users.Find(c.UserContext(), id)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "find user", "id", id, "error", err)
		return nil, redirectWith(c, "/users", "error", "Failed to load user. Please try again.")
	}
	if user == nil {
		return nil, redirectWith(c, "/users", "error", "User not found")
	}
	return user, nil
}

func (h *Handler) UsersShow(c *fiber.Ctx) error {
	user, err := h.findUser(c)
	if user == nil {
		return err
	}
	return h.Render(c, "users/show", user.Name, fiber.Map{"Profile": user.WithoutPassword()})
}

func (h *Handler) UsersEdit(c *fiber.Ctx) error {
	user, err := h.findUser(c)
	if user == nil {
		return err
	}
	return h.Render(c, "users/edit", "Edit User", fiber.Map{"Form": user.WithoutPassword()})
}

// UsersUpdate changes name and email, and the password only when one was typed.
func (h *Handler) UsersUpdate(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := h.findUser(c)
	if user == nil {
		return err
	}
	editPath := fmt.Sprintf("/users/%d/edit", user.ID)

	attrs := map[string]any{
		"name":  strings.TrimSpace(c.FormValue("name")),
		"email": strings.TrimSpace(c.FormValue("email")),
	}
	if password := c.FormValue("password"); password != "" {
		attrs["password"] = password
	}

	if attrs["name"] == "" || attrs["email"] == "" {
		return redirectWith(c, editPath, "error", "Name and email are required")
	}
	if !validation.IsEmail(attrs["email"].(string)) {
		return redirectWith(c, editPath, "error", "email must be email format")
	}

	existing, err := h.users.FindByEmail(ctx, attrs["email"].(string))
	if err != nil {
		slog.ErrorContext(ctx, "find user by email", "error", err)
		return redirectWith(c, editPath, "error", "Failed to update user. Please try again.")
	}
	if existing != nil && existing.ID != user.ID {
		return redirectWith(c, editPath, "error", "Email already exists")
	}

	ok, err := h.users.Update(ctx, user.ID, attrs)
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		return redirectWith(c, editPath, "error", "Email already exists")
	case err != nil:
		slog.ErrorContext(ctx, "update user", "id", user.ID, "error", err)
		return redirectWith(c, editPath, "error", "Failed to update user. Please try again.")
	case !ok:
		return redirectWith(c, editPath, "error", "Failed to update user")
	}

	return redirectWith(c, "/users", "success", "User updated successfully")
}

func (h *Handler) UsersDestroy(c *fiber.Ctx) error {
	user, err := h.findUser(c)
	if user == nil {
		return err
	}

	ok, err := h.users.Delete(c.UserContext(), user.ID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "delete user", "id", user.ID, "error", err)
		return redirectWith(c, "/users", "error", "Failed to delete user. Please try again.")
	}
	if !ok {
		return redirectWith(c, "/users", "error", "Failed to delete user")
	}

	return redirectWith(c, "/users", "success", "User deleted successfully")
}
