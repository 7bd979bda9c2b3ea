package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Timeout puts a deadline on each request's context. When the handler does
// not finish in time the client gets a 504 in the API's JSON envelope and
// the handler's context is cancelled so repository calls abort.
//
// The MediBot proxy under /medibot/ is exempt: bot replies stream and can
// legitimately outlast an API deadline.
func Timeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/medibot/") {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					if c.Response().Committed {
						return nil
					}
					return c.JSON(http.StatusGatewayTimeout, echo.Map{
						"success": false,
						"message": "request timed out",
					})
				}
				// Client disconnects propagate as plain context errors.
				return ctx.Err()
			}
		}
	}
}
