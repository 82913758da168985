package handler

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BearerAuth validates the Authorization header against a bcrypt hash
// of the API token. An empty hash disables authentication, which is
// the development default.
func BearerAuth(tokenHash string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HashToken produces the bcrypt hash stored in server config for a
// plaintext API token.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
