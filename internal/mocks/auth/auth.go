package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
)

// MockIdentityProvider simulates an IdP for tests with deterministic
// state/nonce handling.
type MockIdentityProvider struct {
	BeginFunc      func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc   func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)
	EndSessionFunc func(in ports.EndSessionInput) (string, error)

	// Deterministic values for predictable testing
	AuthURL         string
	StatePrefix     string
	NoncePrefix     string
	DefaultIdentity domainauth.Identity
	LogoutURL       string

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultIdentity: domainauth.Identity{
			Username:  "mock-user",
			Roles:     []domainauth.Role{domainauth.RoleAdmin},
			Token:     "mock-token",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockIdentityProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default identity with a fresh expiration time
	identity := m.DefaultIdentity
	if identity.Username == "" {
		identity = domainauth.Identity{
			Username: "mock-user",
			Roles:    []domainauth.Role{domainauth.RoleAdmin},
			Token:    "mock-token",
		}
	}
	identity.ExpiresAt = time.Now().Add(time.Hour)

	return identity, nil
}

func (m *MockIdentityProvider) EndSessionURL(in ports.EndSessionInput) (string, error) {
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(in)
	}
	return m.LogoutURL, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu      sync.Mutex
	records map[string]domainauth.Record

	// Optional fault injection
	GetErr    error
	SaveErr   error
	DeleteErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		records: make(map[string]domainauth.Record),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, rec domainauth.Record) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if rec.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Record, error) {
	if m.GetErr != nil {
		return domainauth.Record{}, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domainauth.Record{}, ports.ErrSessionNotFound
	}
	if rec.Expired(time.Now()) {
		delete(m.records, id)
		return domainauth.Record{}, ports.ErrSessionNotFound
	}
	return rec, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// Len reports the number of stored records, for assertions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
