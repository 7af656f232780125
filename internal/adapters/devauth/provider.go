package devauth

// Package devauth provides a simple, config-driven identity provider for
// local development. It short-circuits the OAuth flow by redirecting back to
// our own callback with locally generated state and nonce.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	Username        string
	Roles           []string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.IdentityProvider for local development.
// Exchange ignores the code and returns the configured identity with a fresh
// opaque credential.
type Provider struct {
	username        string
	roles           []domainauth.Role
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	roles := make([]domainauth.Role, 0, len(cfg.Roles))
	for _, r := range cfg.Roles {
		if r == "" {
			continue
		}
		roles = append(roles, domainauth.Role(r))
	}
	return &Provider{
		username:        cfg.Username,
		roles:           roles,
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The standard handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code (state/nonce validation is handled by
// the callback handler) and returns the configured identity with a fresh
// opaque token.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	token, err := randomString(40)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("generate dev token: %w", err)
	}
	return domainauth.Identity{
		Username:  p.username,
		Roles:     append([]domainauth.Role(nil), p.roles...),
		Token:     "dev-" + token,
		ExpiresAt: time.Now().Add(p.sessionDuration),
	}, nil
}

// EndSessionURL reports that there is no provider-side session to end.
func (p *Provider) EndSessionURL(_ ports.EndSessionInput) (string, error) {
	return "", nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
