package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/worldmic/seat-service/internal/limiter"
	"github.com/worldmic/seat-service/internal/monitoring"
)

// ChatAdmission gates the chat write path with the sliding-window
// limiter.  Denials answer 429 with a distinct "slow down" message so
// clients can tell throttling from real failures.
func ChatAdmission(l *limiter.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(SourceID(c)) {
				monitoring.TrackChatAdmission("denied")
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "slow down"})
			}
			monitoring.TrackChatAdmission("allowed")
			return next(c)
		}
	}
}

// SourceID derives the limiter bucket for a request from the best
// available forwarded-client-address header.  Unidentifiable clients all
// share the "unknown" bucket; that shared bucket is an accepted
// degradation of a best-effort limiter, not a bug.
func SourceID(c echo.Context) string {
	h := c.Request().Header
	fwd := h.Get("X-Forwarded-For")
	if fwd == "" {
		fwd = h.Get("CF-Connecting-IP")
	}
	if fwd == "" {
		fwd = h.Get("X-Real-IP")
	}
	ip := strings.TrimSpace(strings.Split(fwd, ",")[0])
	if ip == "" {
		ip = c.RealIP()
	}
	if ip == "" {
		return "unknown"
	}
	return ip
}
