package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RouteLogger logs each request entry and exit with status, duration and trace ID.
// Health probes are logged at debug level.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := GetTraceID(c)
		if traceID == "" {
			traceID = "no-trace-id"
		}
		level := zerolog.InfoLevel
		if isHealthPath(c.Path()) {
			level = zerolog.DebugLevel
		}
		start := time.Now()
		log.WithLevel(level).Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")

		err := c.Next()

		// the global error handler has not written the response yet
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		if status >= fiber.StatusInternalServerError {
			level = zerolog.WarnLevel
		}
		log.WithLevel(level).Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).
			Int("status", status).Int64("ms", time.Since(start).Milliseconds()).Msg("Exiting request")
		return err
	}
}
