package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// claimString pulls a string claim from the verified token on the
// request context. AuthRequired has already rejected missing or
// non-access tokens by the time handlers call this.
func claimString(r *http.Request, key string) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	value, _ := claims[key].(string)
	return value
}
