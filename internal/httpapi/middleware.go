package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bittietasks/platform/internal/domain"
)

type ctxKey string

const userKey ctxKey = "user"

// userFrom extracts the authenticated user set by requireUser.
func userFrom(ctx context.Context) *domain.User {
	u, ok := ctx.Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

func withMiddleware(next http.Handler) http.Handler {
	return requestLogging(requestID(next))
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r)
	})
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request processed",
			"request_id", w.Header().Get("X-Request-Id"),
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// requireUser resolves the bearer token and puts the user into the request
// context.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.deps.Auth.Authenticate(r.Context(), token, s.deps.Now())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r.Context())
		if user == nil || !user.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

// requireScheduler guards endpoints meant for the external scheduler. Open
// when no token is configured (development).
func (s *Server) requireScheduler(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.SchedulerToken != "" {
			token := r.Header.Get("X-Scheduler-Token")
			if token == "" {
				token = bearerToken(r)
			}
			if token != s.deps.SchedulerToken {
				writeError(w, http.StatusUnauthorized, "invalid scheduler token")
				return
			}
		}
		next(w, r)
	}
}
