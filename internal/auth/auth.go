// Package auth provides credential hashing, JWT issue/verify and middleware
// that attaches the caller's identity to the request context. It supports
// cookie-based or Authorization header-based token parsing.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/akraevsky/bkmrks/internal/apperrors"
	"github.com/akraevsky/bkmrks/internal/logger"
)

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// IdentityKey is the context key under which the verified identity is stored.
const IdentityKey ContextKey = "identity"

// Auth builds per-request identity contexts out of incoming requests.
type Auth struct {
	manager *Manager

	// authCookieName is the name of the cookie used to store the JWT.
	authCookieName string
}

// New creates an Auth handler with the given token manager and cookie name.
func New(manager *Manager, authCookieName string) *Auth {
	return &Auth{
		manager:        manager,
		authCookieName: authCookieName,
	}
}

// WithIdentity is an HTTP middleware that extracts a token from the request
// (cookie takes precedence over the Authorization header), verifies it and
// attaches the decoded identity to the request context. Any verification
// failure produces an unauthenticated context rather than an error; the
// operations that require identity fail later via Require.
func (a *Auth) WithIdentity(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString := a.getTokenStringFromCookieOrAuthorizationHeader(request)

		claims, err := a.manager.Verify(tokenString)
		if err != nil {
			if tokenString != "" {
				logger.Log.Debugln("discarding unverifiable identity token:", err)
			}
			h.ServeHTTP(response, request)
			return
		}

		ctx := context.WithValue(request.Context(), IdentityKey, claims)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

func (a *Auth) getTokenStringFromCookieOrAuthorizationHeader(request *http.Request) string {
	cookie, err := request.Cookie(a.authCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := request.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return token
	}

	return ""
}

// Identity returns the verified identity stored in ctx, or nil when the
// caller is unauthenticated.
func Identity(ctx context.Context) *Claims {
	claims, ok := ctx.Value(IdentityKey).(*Claims)
	if !ok {
		return nil
	}

	return claims
}

// Require returns the caller's identity or an Unauthorized error when absent.
// It is pure and synchronous; every identity-scoped resolver calls it first.
func Require(ctx context.Context) (*Claims, error) {
	claims := Identity(ctx)
	if claims == nil {
		return nil, apperrors.Unauthorized()
	}

	return claims, nil
}
