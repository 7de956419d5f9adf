package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit returns an HTTP middleware that caps requests per client IP to
// the given number per minute, using a sliding window. This is a coarse
// operational guard for the whole API; there is deliberately no per-account
// lockout on the login endpoint.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}
