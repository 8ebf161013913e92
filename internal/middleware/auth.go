package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"milkchess/internal/auth"
)

type contextKey string

const (
	ClientContextKey contextKey = "client"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	enabled    bool
}

// NewAuthMiddleware returns a middleware validating access tokens. When
// enabled is false every request passes through anonymously.
func NewAuthMiddleware(jwtService *auth.JWTService, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		enabled:    enabled,
	}
}

// RequireAuth validates the JWT and stores the client name in the context.
// Returns 401 if the token is missing or invalid. WebSocket clients, which
// cannot set headers from a browser, may pass the token as ?token=.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := extractToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				http.Error(w, "Token has expired", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClientContextKey, claims.Client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := r.URL.Query().Get("token")
		return token, token != ""
	}

	// Check Bearer prefix
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetClientFromContext retrieves the authenticated client name from the
// request context.
func GetClientFromContext(ctx context.Context) (string, bool) {
	client, ok := ctx.Value(ClientContextKey).(string)
	return client, ok
}
