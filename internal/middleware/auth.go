package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lunanest/storytime/internal/auth"
	"github.com/lunanest/storytime/internal/ctxkeys"
)

// RequireAuth validates the bearer token and attaches the caller's identity
// to the request context. Missing, malformed or expired tokens are rejected
// with 401 before any handler runs.
func RequireAuth(verifier *auth.Verifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "authentication required")
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
