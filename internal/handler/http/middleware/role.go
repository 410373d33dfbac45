package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/handler/http/response"
)

// AdminOnly requires the admin role
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		if role != string(user.RoleAdmin) {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// EmployeeOnly gates the clock endpoints. Admin accounts manage
// schedules and reports but do not clock in themselves.
func EmployeeOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrEmployeeOnly)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrEmployeeOnly)
			return
		}

		if user.Role(roleStr) != user.RoleEmployee {
			response.HandleError(w, user.ErrEmployeeOnly)
			return
		}

		next.ServeHTTP(w, r)
	})
}
