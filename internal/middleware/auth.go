package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/learnpay/settlement-engine/pkg/auth"
	"github.com/learnpay/settlement-engine/pkg/logger"
)

type contextKey string

const (
	// UserIDKey carries the authenticated user's id in the request context
	UserIDKey contextKey = "user_id"
	// RoleKey carries the authenticated user's role in the request context
	RoleKey contextKey = "role"
)

// UserIDFromContext extracts the authenticated user id set by AuthMiddleware
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

// RoleFromContext extracts the authenticated role set by AuthMiddleware
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// AuthMiddleware validates the bearer token and injects the caller's
// identity into the request context
func AuthMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(w, r)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next(w, r.WithContext(ctx))
		}
	}
}

// AdminMiddleware validates the bearer token and requires the admin role
func AdminMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(w, r)
			if !ok {
				return
			}

			if claims.Role != "admin" {
				logger.Warn(r.Context()).
					Uint("user_id", claims.UserID).
					Str("role", claims.Role).
					Str("path", r.URL.Path).
					Msg("Non-admin attempted admin endpoint")
				respondError(w, http.StatusForbidden, "Admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next(w, r.WithContext(ctx))
		}
	}
}

func authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		respondError(w, http.StatusUnauthorized, "Authorization header required")
		return nil, false
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		respondError(w, http.StatusUnauthorized, "Bearer token required")
		return nil, false
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}

	return claims, true
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
