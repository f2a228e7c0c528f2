package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskdeck/taskdeck/pkg/cerr"
)

type identityKey struct{}

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	return identity, ok
}

// BearerToken extracts the bearer credential from the Authorization header,
// falling back to the token query parameter. The fallback exists for the
// event stream handshake, where browsers cannot set headers on EventSource.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// Verifier turns a bearer credential into an identity.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// Middleware rejects requests without a valid bearer credential and
// attaches the verified identity to the request context.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "missing credentials", nil)
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				cerr.SetJSONError(r.Context(), err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}
