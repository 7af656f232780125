package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	apperrors "github.com/wateralmanak/facility-console/internal/errors"
	"github.com/wateralmanak/facility-console/internal/ports"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Provider ports.IdentityProvider
	Sessions ports.SessionStore
	Logger   *slog.Logger
}

// SessionService orchestrates the session lifecycle: beginning and completing
// the login flow, recovering the session snapshot for a request, and logout.
// Operations on the same session ID are serialized through a keyed mutex so a
// logout never interleaves with a recovery of the same session.
type SessionService struct {
	provider ports.IdentityProvider
	sessions ports.SessionStore
	logger   *slog.Logger
	locks    keyedLocks
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		logger:   logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth
// URL with state and nonce for the caller to pin in cookies.
func (s *SessionService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, apperrors.NewSessionFault("begin auth flow", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the new session ID and its snapshot.
type CompleteLoginResult struct {
	SessionID string
	Session   domainauth.Session
}

// CompleteLogin exchanges the authorization code for an identity and persists
// a new session record. The record's roles are fixed at this moment; a later
// role change at the provider requires a fresh login.
func (s *SessionService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, apperrors.NewSessionFault("exchange authorization code", err)
	}

	rec := domainauth.Record{
		ID:        uuid.NewString(),
		Username:  identity.Username,
		Roles:     identity.Roles,
		Token:     identity.Token,
		ExpiresAt: identity.ExpiresAt,
	}

	unlock := s.locks.lock(rec.ID)
	defer unlock()

	if saveErr := s.sessions.Save(ctx, rec); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "session established",
		"username", rec.Username,
		"expires_at", rec.ExpiresAt,
	)

	return &CompleteLoginResult{
		SessionID: rec.ID,
		Session:   domainauth.Authenticated(rec),
	}, nil
}

// Recover resolves the session snapshot for one request. It never returns an
// error: no cookie or no record yields the unauthenticated state, an expired
// record is cleaned up and yields the unauthenticated state, and a store
// fault yields the error state so callers can distinguish "logged out" from
// "unknown".
func (s *SessionService) Recover(ctx context.Context, sessionID string) domainauth.Session {
	if sessionID == "" {
		return domainauth.Unauthenticated()
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return domainauth.Unauthenticated()
		}
		s.logger.ErrorContext(ctx, "session recovery failed", "error", err)
		return domainauth.Faulted(apperrors.NewSessionFault("recover session", err))
	}

	return domainauth.Authenticated(rec)
}

// Logout destroys the local session unconditionally and returns the provider
// end-session URL for a browser redirect, or "" when the provider has none.
// Provider-side failures are logged and swallowed: local logout always wins.
func (s *SessionService) Logout(ctx context.Context, sessionID, redirectURL string) string {
	if sessionID != "" {
		unlock := s.locks.lock(sessionID)
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "session delete failed during logout", "error", err)
		}
		unlock()
	}

	endSessionURL, err := s.provider.EndSessionURL(ports.EndSessionInput{RedirectURL: redirectURL})
	if err != nil {
		s.logger.WarnContext(ctx, "provider end-session URL unavailable", "error", err)
		return ""
	}
	return endSessionURL
}

// keyedLocks serializes operations per session ID. Entries are reference
// counted and removed once the last holder unlocks, so the map does not grow
// with session churn.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedLocks) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
