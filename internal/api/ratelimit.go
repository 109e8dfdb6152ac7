package api

import (
	"math"
	"net"
	"net/http"
	"strconv"

	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
	"github.com/listenupapp/readlog-server/internal/http/response"
)

// rateLimitMutations limits write requests per client IP.
// Reads are never limited. Rejected requests get 429 with Retry-After.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		key := clientIP(r)
		if !s.limiter.Allow(key) {
			retry := s.limiter.RetryAfter(key)
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(math.Ceil(retry.Seconds())))))

			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				"ip", key,
				"method", r.Method,
				"path", r.URL.Path,
			)
			response.Error(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited,
				"Too many requests. Please try again later.", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// clientIP returns the host part of RemoteAddr. middleware.RealIP has
// already replaced it with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
