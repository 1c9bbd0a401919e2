// Package middleware provides authentication middleware for the development
// server routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/explooosion/catalog-console/internal/devserver/token"
	"github.com/explooosion/catalog-console/internal/models"
)

type contextKey string

const (
	usernameKey contextKey = "username"
	roleKey     contextKey = "role"
)

// RequireAuth validates the bearer token and stores the account identity in
// the request context
func RequireAuth(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, role, ok := authenticate(w, r, issuer)
			if !ok {
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), username, role)))
		})
	}
}

// RequireRole validates the bearer token and additionally requires the given
// role
func RequireRole(issuer *token.Issuer, required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, role, ok := authenticate(w, r, issuer)
			if !ok {
				return
			}

			if role != required {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"insufficient permissions"}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), username, role)))
		})
	}
}

// authenticate extracts and validates the bearer token, writing the error
// response itself when validation fails
func authenticate(w http.ResponseWriter, r *http.Request, issuer *token.Issuer) (string, models.Role, bool) {
	var tokenString string

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"authentication required"}`))
		return "", "", false
	}

	username, role, err := issuer.Validate(tokenString)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid or expired token"}`))
		return "", "", false
	}

	return username, role, true
}

// withIdentity stores the account identity in ctx
func withIdentity(ctx context.Context, username string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, usernameKey, username)
	return context.WithValue(ctx, roleKey, role)
}

// GetUsername retrieves the authenticated username from context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

// GetRole retrieves the authenticated role from context
func GetRole(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(roleKey).(models.Role)
	return role, ok
}
