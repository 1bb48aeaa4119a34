package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	sessionCookie = "session"
	limiterIdle   = 10 * time.Minute
)

type ctxKey int

const userIDKey ctxKey = iota

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := httptest.NewRecorder()

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("METHOD %s URI %s %s	STATUS %d Latency %s Client IP %s User Agent %s",
					r.Method,
					r.URL.RequestURI(),
					r.Proto,
					rr.Code,
					latency,
					r.RemoteAddr,
					r.UserAgent(),
				)
			}()

			next.ServeHTTP(rr, r)

			for k, v := range rr.Header() {
				w.Header()[k] = v
			}

			w.WriteHeader(rr.Code)

			if rr.Code >= 400 && rr.Body.Len() != 0 {
				logg.Errorf("error: %s", rr.Body)
			}

			_, err := rr.Body.WriteTo(w)
			if err != nil {
				logg.Errorf("middleware write error: %s", err)
			}
		})
	}
}

type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
}

func newRateLimiter(cfg config.RateLimit) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
	}
}

func (rl *rateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		rl.evict(now)

		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)} //nolint:exhaustruct
		rl.visitors[key] = v
	}

	v.seen = now

	return v.limiter.AllowN(now, 1)
}

func (rl *rateLimiter) evict(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.seen) > limiterIdle {
			delete(rl.visitors, k)
		}
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r), time.Now()) {
			w.Header().Set("Retry-After", "1")
			s.writeError(w, errRateLimited)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}

	return ""
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			s.writeError(w, errUnauthorized)

			return
		}

		id, err := s.authService.Auth(token)
		if err != nil {
			s.writeError(w, errUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

// optionalSession attaches the user when a valid session is present and lets
// anonymous requests through.
func (s *Server) optionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := sessionToken(r); token != "" {
			if id, err := s.authService.Auth(token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
			}
		}

		next.ServeHTTP(w, r)
	})
}

// userID returns the authenticated user, or 0 for anonymous requests.
func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)

	return id
}
