package middleware

import (
	"context"
	"net/http"
	"strings"
)

// AccessTokenCookie is the cookie set by the auth service for browser clients
const AccessTokenCookie = "access_token"

// TokenValidator validates access tokens issued by the auth service
type TokenValidator interface {
	// Method ValidateAccessToken returns the user ID and role carried by a valid access token.
	ValidateAccessToken(token string) (int, int, error)
}

// AuthMiddleware validates the JWT access token and stores the viewer ID and role in the request context
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return RoleMiddleware(validator, 0)
}

// RoleMiddleware validates the JWT access token and checks that the role is >= requiredRole
func RoleMiddleware(validator TokenValidator, requiredRole int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if role < requiredRole {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if holder, ok := r.Context().Value(viewerHolderKey).(*viewerHolder); ok {
				holder.viewerID = userID
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads a bearer token from the Authorization header, falling back to the access token cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// GetRole retrieves the role from context
func GetRole(ctx context.Context) (int, bool) {
	role, ok := ctx.Value(roleKey).(int)
	return role, ok
}

// WithUserID returns a copy of ctx carrying the user ID and role, as AuthMiddleware would store them
func WithUserID(ctx context.Context, userID, role int) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

const viewerHolderKey contextKey = "viewerHolder"

type viewerHolder struct {
	viewerID int
}

func withViewerHolder(ctx context.Context, holder *viewerHolder) context.Context {
	return context.WithValue(ctx, viewerHolderKey, holder)
}
