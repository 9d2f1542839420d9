package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/eventlog/internal/identity"
)

// AuthMiddleware verifies the bearer token on every request and stores the
// identity it asserts in the request context. A nil verifier disables auth
// and requests run as the system actor. GET /v1/health is always exempt.
func AuthMiddleware(v *identity.Verifier, next http.Handler) http.Handler {
	if v == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		id, err := v.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
	})
}

// OriginMiddleware records the request path as the origin of any event
// created while serving the request.
func OriginMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(identity.WithOrigin(r.Context(), r.URL.Path)))
	})
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errors.New("invalid authorization scheme")
	}
	return token, nil
}
