package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/session"
	"github.com/mohammadDV/new-mvc-framework/validation"
)

var spoofable = map[string]string{
	"put":    fiber.MethodPut,
	"patch":  fiber.MethodPatch,
	"delete": fiber.MethodDelete,
}

// MethodOverride dispatches a POST carrying _method=put|patch|delete as that method.
func MethodOverride() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost {
			if m, ok := spoofable[strings.ToLower(c.FormValue("_method"))]; ok {
				c.Method(m)
			}
		}
		return c.Next()
	}
}

// ValidationErrors turns a validation.Errors returned by a handler into flashed
// errors and a redirect back to the form.
func ValidationErrors() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		var verrs validation.Errors
		if errors.As(err, &verrs) {
			session.SetErrors(c, verrs)
			return c.Redirect(session.PreviousURL(c, "/"))
		}
		return err
	}
}
