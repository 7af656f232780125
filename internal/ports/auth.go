package ports

// Package ports defines interfaces (hexagonal ports) for the identity
// provider boundary and session persistence. Implementations live in
// internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get when no record exists
// for the given identifier. Stores must return it (possibly wrapped) so the
// caller can distinguish "no session" from a store fault.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// EndSessionInput carries the post-logout destination.
type EndSessionInput struct {
	RedirectURL string
}

// IdentityProvider initiates and completes an authentication flow against an
// IdP and knows how to end the provider-side session. Implementations must
// tolerate the provider being unavailable; construction failures disable
// auth rather than crash the process.
type IdentityProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity including the bearer credential.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)

	// EndSessionURL builds the provider's end-session URL for a browser
	// redirect. It returns "" when the provider exposes no such endpoint.
	EndSessionURL(in EndSessionInput) (string, error)
}

// SessionStore persists and retrieves authenticated session records.
type SessionStore interface {
	Save(ctx context.Context, rec domainauth.Record) error
	Get(ctx context.Context, id string) (domainauth.Record, error)
	Delete(ctx context.Context, id string) error
}
