package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/CrowderSoup/kanban-app/services"
)

type contextKey string

const subjectContextKey contextKey = "subject"

// requestSubject returns the authenticated subject stored by Auth. It
// falls back to "anonymous" when the middleware did not run.
func requestSubject(r *http.Request) string {
	if subject, ok := r.Context().Value(subjectContextKey).(string); ok && subject != "" {
		return subject
	}
	return "anonymous"
}

type AuthMiddleware struct {
	authService *services.AuthService
}

func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		// Extract token from Bearer format
		authParts := strings.Split(authHeader, " ")
		if len(authParts) != 2 || authParts[0] != "Bearer" {
			http.Error(w, "invalid authorization format", http.StatusUnauthorized)
			return
		}

		tokenString := authParts[1]

		// Verify token
		subject, err := m.authService.VerifyJWT(tokenString)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), subjectContextKey, subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
