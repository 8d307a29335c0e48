package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the header checked by APIKeyMiddleware
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware validates API key from X-API-Key header.
// Used for service-to-service calls such as the course service reading viewer summaries.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" || providedKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyOrRoleMiddleware accepts service calls carrying an API key and falls back to
// role-checked JWT authentication for everything else
func APIKeyOrRoleMiddleware(apiKey string, validator TokenValidator, requiredRole int) func(http.Handler) http.Handler {
	byKey := APIKeyMiddleware(apiKey)
	byRole := RoleMiddleware(validator, requiredRole)
	return func(next http.Handler) http.Handler {
		keyed, authed := byKey(next), byRole(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(APIKeyHeader) != "" {
				keyed.ServeHTTP(w, r)
				return
			}
			authed.ServeHTTP(w, r)
		})
	}
}
