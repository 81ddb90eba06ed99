package gql

import (
	"context"
	"net/http"
	"time"
)

type responderKey struct{}

// WithResponder stores the response writer in the context so resolvers can
// set response-level side effects, such as the identity cookie after sign-in.
func WithResponder(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responderKey{}, w)
}

func responderFrom(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(responderKey{}).(http.ResponseWriter)
	return w
}

func (r *Resolver) setAuthCookie(ctx context.Context, token string) {
	w := responderFrom(ctx)
	if w == nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     r.authCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   false,
		Expires:  time.Now().Add(r.tokens.TokenTTL()),
	})
}

func (r *Resolver) clearAuthCookie(ctx context.Context) {
	w := responderFrom(ctx)
	if w == nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     r.authCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   false,
		Expires:  time.Unix(0, 0),
	})
}
