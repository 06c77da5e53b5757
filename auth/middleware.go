package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/user/userservice-go/apperror"
)

// Identity is the resolved identity of an authenticated caller, decoded from
// a verified bearer token.
type Identity struct {
	AccountID int
	Username  string
}

// AuthenticatedHandler is a handler that receives an already-authenticated
// identity as an explicit argument. Protected handlers implement this
// contract instead of digging credentials out of the request context.
type AuthenticatedHandler func(ident Identity, w http.ResponseWriter, r *http.Request)

// Middleware guards protected endpoints by decoding the bearer token and
// forwarding the resolved identity to the wrapped handler.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware creates an auth Middleware over the given token service.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticated wraps an AuthenticatedHandler into a plain http.HandlerFunc.
// Every failure mode produces a 401; a missing header, a malformed or
// tampered token, and an expired token are distinguished in the logs and in
// the response message, but never by status code.
func (m *Middleware) Authenticated(next AuthenticatedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("auth: missing Authorization header on %s %s", r.Method, r.URL.Path)
			WriteError(w, r, apperror.NewAuthError("authorization header is missing", nil))
			return
		}

		// The Authorization header must be in the format "Bearer {token}".
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			log.Printf("auth: malformed Authorization header on %s %s", r.Method, r.URL.Path)
			WriteError(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
			return
		}

		claims, err := m.tokens.Decode(parts[1])
		if err != nil {
			// The decode kind (malformed, bad signature, expired) stays in
			// the log; the client sees 401 either way.
			log.Printf("auth: rejected token on %s %s: %v", r.Method, r.URL.Path, err)
			WriteError(w, r, tokenAuthError(err))
			return
		}

		next(Identity{AccountID: claims.UserID, Username: claims.Username}, w, r)
	}
}

// tokenAuthError maps a token decode failure to the outward 401. Only expiry
// gets its own message, since "log in again" is actionable for the client;
// signature and malformation details are not.
func tokenAuthError(err error) error {
	if errors.Is(err, ErrTokenExpired) {
		return apperror.NewAuthError("token has expired", err)
	}
	return apperror.NewAuthError("invalid token", err)
}
