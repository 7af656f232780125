package httpx

import (
	"context"
	"time"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
)

// sessionKey is an unexported context key type for the session snapshot.
type sessionKey struct{}

// WithSession returns a context carrying the session snapshot. The snapshot
// is resolved once per request by ResolveSession; everything downstream reads
// the same value, so a request sees one consistent authentication state.
func WithSession(ctx context.Context, sess domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the request's session snapshot. Requests that
// did not pass through ResolveSession read as unauthenticated.
func SessionFromContext(ctx context.Context) domainauth.Session {
	if sess, ok := ctx.Value(sessionKey{}).(domainauth.Session); ok {
		return sess
	}
	return domainauth.Unauthenticated()
}

// ContextCredentialSource feeds the outgoing-request authorizer from the
// session snapshot in the request context.
type ContextCredentialSource struct{}

// Credential returns the bearer credential for the context's session, if the
// session is authenticated and the credential has not expired.
func (ContextCredentialSource) Credential(ctx context.Context) (string, bool) {
	return SessionFromContext(ctx).Credential(time.Now())
}
