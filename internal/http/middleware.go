package httpserver

import (
	"context"
	"net/http"
	"strings"
)

type contextKey int

const (
	requesterIDKey contextKey = iota
	requesterAdminKey
)

// requireAuth validates the bearer token and stores the requester's
// identity in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if header == "" || !strings.HasPrefix(header, prefix) {
			s.respondError(w, http.StatusUnauthorized, "Missing or invalid authentication token")
			return
		}

		claims, err := s.tokens.Validate(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "Missing or invalid authentication token")
			return
		}

		ctx := context.WithValue(r.Context(), requesterIDKey, claims.UserID)
		ctx = context.WithValue(ctx, requesterAdminKey, claims.IsAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates admin-only routes. Must run after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requesterIsAdmin(r) {
			s.respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requesterID(r *http.Request) string {
	id, _ := r.Context().Value(requesterIDKey).(string)
	return id
}

func requesterIsAdmin(r *http.Request) bool {
	isAdmin, _ := r.Context().Value(requesterAdminKey).(bool)
	return isAdmin
}
