package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type prevents other packages from reading or
// shadowing the identity value stored in the request context.
type contextKey string

const identityKey contextKey = "identity"

// CookieName is the session cookie. The clearing call in logout must use
// the exact same name and attributes as the setting call in login, or
// browsers silently keep the old cookie.
const CookieName = "token"

// ErrNoToken is returned by ExtractToken when the request carries no
// session token in either the cookie or the Authorization header.
var ErrNoToken = errors.New("auth: no token in request")

// ExtractToken pulls the session token from the request: the "token"
// cookie if present, otherwise a bearer Authorization header.
//
// The cookie is the primary transport (set by the login handler); the
// Authorization header supports non-browser clients.
func ExtractToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token, nil
	}

	return "", ErrNoToken
}

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It extracts the token (cookie or bearer header), validates it, and
// stores the identity claim in the request context. A missing token and
// an invalid/expired one produce distinct messages, but both stop the
// chain with 401 before the handler runs.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := ExtractToken(r)
			if err != nil {
				unauthorized(w, "Not authenticated")
				return
			}

			id, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by
// RequireAuth. Returns (Identity{}, false) on anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.ID != ""
}

// unauthorized writes the standard 401 error body. The middleware can't
// use the handler package's helpers without an import cycle, so the JSON
// is written directly; the shape matches handler.ErrorResponse.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
