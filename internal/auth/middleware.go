package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/0xAdem/ransomguard/internal/models"
)

// ContextKey is used to store values in request context
type ContextKey string

const (
	UserContextKey ContextKey = "user"
)

// AuthMiddleware is a middleware that validates JWT bearer tokens
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		// Expect format: "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			http.Error(w, "Authorization header must be in format 'Bearer <token>'", http.StatusUnauthorized)
			return
		}

		user, err := s.ValidateToken(tokenParts[1])
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				http.Error(w, "User not found", http.StatusUnauthorized)
			} else {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext retrieves the authenticated user from request context
func GetUserFromContext(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}
