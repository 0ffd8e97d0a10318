package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/response"
)

// RequireAdmin requires admin or superadmin role. The token role is only a
// fast gate; services re-check against the stored user.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrAdminRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrAdminRequired)
			return
		}

		role := user.Role(roleStr)
		if role != user.RoleAdmin && role != user.RoleSuperadmin {
			response.HandleError(w, user.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSuperadmin requires superadmin role
func RequireSuperadmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrSuperadminRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrSuperadminRequired)
			return
		}

		if user.Role(roleStr) != user.RoleSuperadmin {
			response.HandleError(w, user.ErrSuperadminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
