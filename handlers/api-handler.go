package handler

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/middleware"
	"github.com/mohammadDV/new-mvc-framework/requests"
	"github.com/mohammadDV/new-mvc-framework/validation"
)

const tokenCookieLifetime = 7 * 24 * time.Hour

func jsonError(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data,
	})
}

func jsonSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func (h *Handler) Live(c *fiber.Ctx) error {
	return jsonSuccess(c, "ok", nil)
}

// Ready runs every health check and answers 503 when any of them fails.
func (h *Handler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := fiber.Map{}
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	if !healthy {
		return jsonError(c, fiber.StatusServiceUnavailable, "Service unavailable", results)
	}
	return jsonSuccess(c, "ready", results)
}

// IssueToken exchanges email and password for a JWT, returned in the body and set as a cookie.
func (h *Handler) IssueToken(c *fiber.Ctx) error {
	type LoginData struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}

	type TokenResponse struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Token string `json:"token"`
	}

	input := new(LoginData)
	if err := c.BodyParser(input); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	input.Email = strings.TrimSpace(input.Email)

	errs, err := h.validator.Validate(c.UserContext(), validation.MapInput{Values: map[string]string{
		"email":    input.Email,
		"password": input.Password,
	}}, requests.Login())
	if err != nil {
		return err
	}
	if errs.Any() {
		return jsonError(c, fiber.StatusUnprocessableEntity, "Validation failed", errs)
	}

	user, err := h.users.VerifyCredentials(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return err
	}
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
	}

	tokenStr, err := h.tokens.Issue(*user)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to generate token", nil)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    tokenStr,
		Expires:  time.Now().Add(tokenCookieLifetime),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: "Lax",
	})

	return jsonSuccess(c, "Login successful", TokenResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: tokenStr,
	})
}

func (h *Handler) RevokeToken(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return jsonSuccess(c, "Logout successful", nil)
}

// APIPosts lists published posts, newest first.
func (h *Handler) APIPosts(c *fiber.Ctx) error {
	perPage, page := pageParams(c, h.perPage)

	posts, err := h.posts.PaginateWithUser(c.UserContext(), perPage, page)
	if err != nil {
		return err
	}

	return jsonSuccess(c, "Posts found", fiber.Map{
		"items":        posts.Items,
		"total":        posts.Total,
		"per_page":     posts.PerPage,
		"current_page": posts.CurrentPage,
		"last_page":    posts.LastPage,
	})
}

func (h *Handler) APIPost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "No post found with ID", nil)
	}

	post, err := h.posts.Find(c.UserContext(), id)
	if err != nil {
		return err
	}
	if post == nil || !post.Status.IsPublished() {
		return jsonError(c, fiber.StatusNotFound, "No post found with ID", nil)
	}
	if post.User != nil {
		author := post.User.WithoutPassword()
		post.User = &author
	}

	return jsonSuccess(c, "Post found", post)
}

// Me returns the user the bearer token was issued for.
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "You are not authorized!", nil)
	}

	user, err := h.users.Find(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if user == nil {
		return jsonError(c, fiber.StatusNotFound, "No user found with ID", nil)
	}

	return jsonSuccess(c, "User found", fiber.Map{
		"user":       user.WithoutPassword(),
		"post_count": h.countUserPosts(c, user.ID),
	})
}

func (h *Handler) countUserPosts(c *fiber.Ctx, userID uint) int {
	posts, err := h.posts.FindAllByUser(c.UserContext(), userID)
	if err != nil {
		return 0
	}
	return len(posts)
}
