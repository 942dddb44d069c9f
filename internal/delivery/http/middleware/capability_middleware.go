package middleware

import (
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/service"
	"github.com/Ouerghi23/Medflow/pkg/response"
)

// RequireCapability rejects callers whose role may not perform action.
// Role is read from the principal set by AuthMiddleware.
func RequireCapability(policy service.AccessPolicy, action service.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !policy.Can(principal.Role, action) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
