package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/codewithboateng/lracheck/internal/storage"
)

type ctxKey int

const userKey ctxKey = 1

func withAuth(s *Server, next http.HandlerFunc, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, err := readSessionCookie(r)
		if err != nil {
			s.err(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		u, err := s.UserStore.GetSession(tok)
		if err != nil {
			s.err(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		_ = s.UserStore.LogAudit(u.Username, action, r.URL.Path, map[string]any{"method": r.Method})
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	}
}

// withAdmin is withAuth plus a role check.
func withAdmin(s *Server, next http.HandlerFunc, action string) http.HandlerFunc {
	return withAuth(s, func(w http.ResponseWriter, r *http.Request) {
		u, ok := userFromCtx(r.Context())
		if !ok || !u.IsAdmin() {
			s.err(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	}, action)
}

func userFromCtx(ctx context.Context) (storage.User, bool) {
	u, ok := ctx.Value(userKey).(storage.User)
	return u, ok
}

// withCORS echoes an allowed Origin; with no allowed origins configured no
// CORS headers are sent.
func withCORS(s *Server, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if origin := s.pickCORSOrigin(r); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h(w, r)
	}
}

func (s *Server) pickCORSOrigin(r *http.Request) string {
	origin := r.Header.Get("Origin")
	for _, ao := range s.AllowedOrigins {
		if ao == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(origin, ao) {
			return origin
		}
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func withLogging(s *Server, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		dur := time.Since(start)
		// the mux fills r.Pattern in place once it has routed the request
		s.Metrics.ObserveRequest(r.Pattern, sr.status, dur)
		s.logger().Debug("http", "method", r.Method, "path", r.URL.Path,
			"status", sr.status, "dur_ms", dur.Milliseconds())
	})
}
