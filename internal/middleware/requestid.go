package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-capture/api/internal/logger"
)

const headerRequestID = "X-Request-ID"

// RequestID injects an identifier for traceability if the caller did not provide one.
// The id is stored on the request context, where the logger picks it up.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(headerRequestID)
			if rid == "" || len(rid) > 128 {
				rid = uuid.NewString()
			}

			c.Response().Header().Set(headerRequestID, rid)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), rid)))

			return next(c)
		}
	}
}
