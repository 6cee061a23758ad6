package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "SteelDash/pkg/logger"
)

// RequestLogging logs every request at debug, slow ones at warn and 5xx
// responses at error.
func RequestLogging(l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latency := time.Since(start)
			res := c.Response()
			fields := []applogger.Field{
				applogger.String("request_id", requestID(c)),
				applogger.String("method", c.Request().Method),
				applogger.String("route", routeLabel(c)),
				applogger.String("uri", c.Request().RequestURI),
				applogger.Int("status", res.Status),
				applogger.Duration("latency", latency),
				applogger.Int("bytes", int(res.Size)),
			}
			switch {
			case res.Status >= 500:
				if err != nil {
					fields = append(fields, applogger.Error(err))
				}
				l.Error("http request failed", fields...)
			case slowThreshold > 0 && latency >= slowThreshold:
				l.Warn("http request slow", fields...)
			default:
				l.Debug("http request", fields...)
			}
			return nil
		}
	}
}
