package middleware

import (
	"strings"

	"github.com/go-pkgz/auth/v2/token"
	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/auth"
)

// TokenCookie is the cookie the API token endpoint sets next to the JSON response.
const TokenCookie = "JWT"

// Auth sends visitors without a session user to the login page.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.Check(c) {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// Guest keeps logged in users away from the login and register pages.
func Guest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.Check(c) {
			return c.Redirect("/")
		}
		return c.Next()
	}
}

// LoadUser exposes the session user's id as the "userID" local for logging and rate limiting.
func LoadUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u := auth.User(c); u != nil {
			c.Locals("userID", u.ID)
		}
		return c.Next()
	}
}

// TokenAuth guards the JSON API. The token comes from the Authorization header or the JWT cookie.
func TokenAuth(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		var tokenStr string

		if rest, ok := strings.CutPrefix(authHeader, "Bearer "); ok && rest != "" {
			tokenStr = rest
		} else {
			tokenStr = c.Cookies(TokenCookie)
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "You are not authorized!",
				"data":    nil,
			})
		}

		user, err := tokens.Parse(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token",
				"data":    nil,
			})
		}

		userID, err := auth.UserID(user)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token",
				"data":    nil,
			})
		}

		c.Locals("user", *user)
		c.Locals("userID", userID)

		return c.Next()
	}
}

// TokenUser returns the user stored by TokenAuth.
func TokenUser(c *fiber.Ctx) (token.User, bool) {
	user, ok := c.Locals("user").(token.User)
	return user, ok
}
