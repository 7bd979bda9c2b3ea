package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader is the header carrying the request correlation id.
const RequestIDHeader = "X-Request-ID"

// contextKeyRequestID is the echo.Context key the correlation id is stored
// under. Logger and Recovery read it back through requestID.
const contextKeyRequestID = "request_id"

func requestID(c echo.Context) string {
	rid, _ := c.Get(contextKeyRequestID).(string)
	return rid
}

// RequestID assigns each request a correlation id, reusing the caller's
// X-Request-ID header when present, and echoes it on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.New().String()
			}
			c.Set(contextKeyRequestID, rid)
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
