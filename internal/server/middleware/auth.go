// Package middleware provides HTTP middleware for bearer token authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// workspaceKey is the context key for the authenticated workspace.
const workspaceKey ContextKey = "workspace"

// TokenValidator validates bearer tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (WorkspaceGetter, error)
}

// WorkspaceGetter extracts the workspace id from token claims.
type WorkspaceGetter interface {
	GetWorkspace() string
}

// AuthMiddleware creates middleware that validates bearer tokens and adds the
// token's workspace to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}
			workspace := claims.GetWorkspace()
			if workspace == "" {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), workspace)))
		})
	}
}

// bearerToken parses a case-insensitive "Bearer <token>" Authorization header
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
}

// WithWorkspace returns a context carrying workspace
func WithWorkspace(ctx context.Context, workspace string) context.Context {
	return context.WithValue(ctx, workspaceKey, workspace)
}

// GetWorkspace extracts the authenticated workspace from the request context.
func GetWorkspace(r *http.Request) (string, error) {
	workspace, ok := r.Context().Value(workspaceKey).(string)
	if !ok || workspace == "" {
		return "", fmt.Errorf("workspace not found in request context")
	}
	return workspace, nil
}
