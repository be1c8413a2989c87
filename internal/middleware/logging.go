package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes one structured line for each HTTP request.
func Logging(log *slog.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", c.Response().Status),
				slog.Duration("latency", latency),
			}
			level := slog.LevelInfo
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
				level = slog.LevelError
			}
			log.LogAttrs(req.Context(), level, "http request", attrs...)

			return err
		}
	}
}
