package middlewarex

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"devcamper/internal/http/respond"
	"devcamper/internal/ratelimit"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// RateLimit rejects clients over their per-window budget with 429. The
// client is identified by remote IP, so it belongs after chi's RealIP.
func RateLimit(l Limiter, onLimited func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// on store errors Allow logs and returns an allowing decision
			d, _ := l.Allow(r.Context(), clientIP(r))
			if d.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			}
			if !d.Allowed {
				if onLimited != nil {
					onLimited()
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(d.ResetIn.Seconds())+1))
				respond.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
