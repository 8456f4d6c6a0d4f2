package middleware

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is the global structured logger instance used throughout the application.
var Logger *slog.Logger

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

// ctxHandler adds request and user ids from the context to every record.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if rid, ok := ctx.Value(RequestIDKey).(string); ok {
		r.AddAttrs(slog.String("request_id", rid))
	}
	if uid, ok := ctx.Value(UserIDKey).(uint); ok {
		r.AddAttrs(slog.Any("user_id", uid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

// errorFileHandler copies error records into a separate log file.
type errorFileHandler struct {
	slog.Handler
	file slog.Handler
}

func (h *errorFileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.Handler.Enabled(ctx, level) || level >= slog.LevelError
}

func (h *errorFileHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.Handler.Enabled(ctx, r.Level) {
		if err := h.Handler.Handle(ctx, r); err != nil {
			return err
		}
	}
	if r.Level >= slog.LevelError {
		return h.file.Handle(ctx, r.Clone())
	}
	return nil
}

func (h *errorFileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorFileHandler{Handler: h.Handler.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *errorFileHandler) WithGroup(name string) slog.Handler {
	return &errorFileHandler{Handler: h.Handler.WithGroup(name), file: h.file.WithGroup(name)}
}

func init() {
	Logger = NewLogger(os.Stdout, os.Getenv("APP_ENV") == "production", false, nil)
}

// NewLogger builds the context-aware logger. errorLog, when non-nil, receives error records as JSON.
func NewLogger(w io.Writer, production, debug bool, errorLog io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	if errorLog != nil {
		handler = &errorFileHandler{
			Handler: handler,
			file:    slog.NewJSONHandler(errorLog, &slog.HandlerOptions{Level: slog.LevelError}),
		}
	}

	return slog.New(&ctxHandler{handler})
}

// ConfigureLogger replaces the global logger. The returned closer releases the error log file.
func ConfigureLogger(production, debug bool, errorLogPath string) (io.Closer, error) {
	var errorLog *os.File
	if errorLogPath != "" {
		if err := os.MkdirAll(filepath.Dir(errorLogPath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open error log: %w", err)
		}
		errorLog = f
	}

	if errorLog == nil {
		Logger = NewLogger(os.Stdout, production, debug, nil)
		slog.SetDefault(Logger)
		return io.NopCloser(nil), nil
	}

	Logger = NewLogger(os.Stdout, production, debug, errorLog)
	slog.SetDefault(Logger)
	return errorLog, nil
}

// ContextMiddleware copies the request id and user id from Fiber locals into the user context.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if rid, ok := c.Locals("requestid").(string); ok {
			ctx = context.WithValue(ctx, RequestIDKey, rid)
		}
		if uid, ok := c.Locals("userID").(uint); ok {
			ctx = context.WithValue(ctx, UserIDKey, uid)
		}

		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger logs one record per request after it has been handled.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			Logger.WarnContext(c.UserContext(), "request failed", fields...)
		} else {
			Logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
