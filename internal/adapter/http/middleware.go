package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	correlationHeader = "X-Correlation-ID"
	correlationIDKey  = "correlationID"
	loggerKey         = "slogLogger"
)

// CorrelationID makes sure every request carries an X-Correlation-ID and
// echoes it on the response.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(correlationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(correlationIDKey, id)
		c.Set(correlationHeader, id)
		return c.Next()
	}
}

func GetCorrelationID(c *fiber.Ctx) string {
	if id, ok := c.Locals(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestLogger stores a request scoped slog.Logger in the fiber locals and
// logs one line per completed request.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Route().Path
		if path == "" || path == "/" {
			path = c.Path()
		}
		requestLogger := logger.With(
			slog.String("correlation_id", GetCorrelationID(c)),
			slog.String("method", c.Method()),
			slog.String("path", path),
		)
		c.Locals(loggerKey, requestLogger)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		requestLogger.Info("request completed",
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		)
		return err
	}
}

// LoggerFromCtx returns the request logger, or slog.Default outside a request.
func LoggerFromCtx(c *fiber.Ctx) *slog.Logger {
	if l, ok := c.Locals(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
