package server

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/repository"
)

// statusOf maps an error returned by a handler to the HTTP status of the response.
func statusOf(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Status()
	}

	if errors.Is(err, repository.ErrNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// publicMessage is the text a client may see. Internal failures never leak their cause.
func publicMessage(code int, err error) string {
	if code >= fiber.StatusInternalServerError {
		return utils.StatusMessage(code)
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Message != "" {
		return fiberErr.Message
	}
	return utils.StatusMessage(code)
}

func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api") {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func errorView(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "errors/404"
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return "errors/403"
	default:
		return "errors/500"
	}
}

// handleError is the central error page. JSON clients get the API envelope, browsers an
// error page, with the underlying error shown only in debug mode.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusOf(err)

	if code >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
		)
	}

	if wantsJSON(c) {
		return c.Status(code).JSON(fiber.Map{
			"status":  "error",
			"message": publicMessage(code, err),
			"data":    nil,
		})
	}

	data := fiber.Map{}
	var appErr *models.AppError
	if errors.As(err, &appErr) && code < fiber.StatusInternalServerError {
		data["Message"] = appErr.Message
	}
	if s.cfg.Debug {
		data["Detail"] = err.Error()
	}

	c.Status(code)
	if renderErr := s.h.Render(c, errorView(code), utils.StatusMessage(code), data); renderErr != nil {
		slog.ErrorContext(c.UserContext(), "render error page", "error", renderErr)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(publicMessage(code, err))
	}
	return nil
}
