package routes

import (
	"net/http"
	"strings"

	"amora_server/services"

	"github.com/gorilla/mux"
)

// RequireAuth validates the Bearer session token on every request of a
// subrouter. The auth exchange routes stay outside of it.
func RequireAuth(authService *services.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				http.Error(w, `{"error": "Missing bearer token"}`, http.StatusUnauthorized)
				return
			}
			if _, err := authService.ParseToken(token); err != nil {
				http.Error(w, `{"error": "Invalid session token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
